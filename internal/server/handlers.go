package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/tradegym/pkg/id"
	"github.com/rustyeddy/tradegym/sim"
	"go.uber.org/zap"
)

type createRequest struct {
	// Params overlays the server defaults; omitted fields keep them.
	Params sim.Params `json:"params"`
}

type stepRequest struct {
	Action *int `json:"action"`
}

func (s *Server) handleCreate(c *gin.Context) {
	req := createRequest{Params: s.params}
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		// An empty body keeps the server defaults.
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	env, err := sim.NewEngine(s.series, req.Params, sim.WithLogger(s.log))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	envID := id.New()
	s.mu.Lock()
	s.sessions[envID] = &session{env: env}
	s.mu.Unlock()

	s.log.Info("env created", zap.String("env", envID), zap.Int("window_size", req.Params.WindowSize))
	c.JSON(http.StatusCreated, gin.H{
		"id":               envID,
		"observation_size": env.ObservationSize(),
		"max_steps":        env.MaxSteps(),
		"num_actions":      sim.NumActions,
		"params":           env.Params(),
	})
}

func (s *Server) handleReset(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	obs, info, err := sess.env.Reset()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	sess.trades = 0
	sess.reward = 0
	c.JSON(http.StatusOK, gin.H{"observation": obs, "info": info})
}

func (s *Server) handleStep(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}

	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Action == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action is required"})
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	res, err := sess.env.Step(sim.Action(*req.Action))
	switch {
	case errors.Is(err, sim.ErrEpisodeDone), errors.Is(err, sim.ErrNotReset):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		s.log.Error("step failed", zap.String("env", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.metrics.ObserveStep(res)
	sess.reward += res.Reward
	for _, t := range sess.env.TradesSince(sess.trades) {
		s.metrics.ObserveTrade(t)
		sess.trades++
	}
	if res.Done {
		s.metrics.ObserveEpisode(sess.reward)
	}

	c.JSON(http.StatusOK, res)
}

func (s *Server) handleStats(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	stats, has := sess.env.Statistics()
	body := gin.H{
		"state":     sess.env.State().String(),
		"step":      sess.env.Cursor(),
		"account":   sess.env.Account(),
		"has_stats": has,
	}
	if has {
		body["statistics"] = stats
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleRender(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	c.String(http.StatusOK, sess.env.Render())
}

func (s *Server) handleDelete(c *gin.Context) {
	envID := c.Param("id")
	s.mu.Lock()
	_, ok := s.sessions[envID]
	delete(s.sessions, envID)
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "env not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
