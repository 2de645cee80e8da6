// Package server exposes a custom agent over HTTP so that a simulator
// running in another process can drive it step by step.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeu5/pownet-rl/agents"
	"github.com/zeu5/pownet-rl/powergrid"
	"github.com/zeu5/pownet-rl/types"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type actRequest struct {
	Usage []float64 `json:"lines_capacity_usage"`
}

type actResponse struct {
	Action        int   `json:"action"`
	NodeSplitting []int `json:"node_splitting"`
}

type returnRequest struct {
	Usage   []float64 `json:"lines_capacity_usage"`
	Rewards []float64 `json:"rewards"`
	Done    bool      `json:"done"`
}

type valueResponse struct {
	States  int         `json:"states"`
	Actions int         `json:"actions"`
	Values  [][]float64 `json:"values"`
}

// AgentServer serializes every call to the agent behind one lock
type AgentServer struct {
	Addr   string
	server *http.Server
	logger *slog.Logger

	lock  *sync.Mutex
	agent *agents.CustomAgent
	space *powergrid.Space
	last  types.Action
	steps int
}

func NewAgentServer(addr string, agent *agents.CustomAgent, space *powergrid.Space, logger *slog.Logger) *AgentServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &AgentServer{
		Addr:   addr,
		logger: logger,
		lock:   new(sync.Mutex),
		agent:  agent,
		space:  space,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.POST("/act", s.handleAct)
	r.POST("/return", s.handleReturn)
	r.GET("/value", s.handleValue)
	r.GET("/policy", s.handlePolicy)
	r.GET("/status", s.handleStatus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.server = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// Handler returns the routes of the server
func (s *AgentServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *AgentServer) observation(usage []float64) (*powergrid.Observation, error) {
	if len(usage) != s.space.NumberOfLines() {
		return nil, fmt.Errorf("%d line usages for %d lines: %w", len(usage), s.space.NumberOfLines(), types.ErrInvalidArgument)
	}
	return &powergrid.Observation{Usage: usage}, nil
}

func (s *AgentServer) handleAct(c *gin.Context) {
	req := actRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	obs, err := s.observation(req.Usage)
	if err != nil {
		writeError(c, err)
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	action, err := s.agent.Act(obs)
	observe("act", err)
	if err != nil {
		writeError(c, err)
		return
	}
	s.last = action

	resp := actResponse{Action: -1, NodeSplitting: action.NodeSplittingSubaction()}
	for i, v := range resp.NodeSplitting {
		if v == 1 {
			resp.Action = i
			break
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *AgentServer) handleReturn(c *gin.Context) {
	req := returnRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	obs, err := s.observation(req.Usage)
	if err != nil {
		writeError(c, err)
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	err = s.agent.FeedReturn(s.last, obs, req.Rewards, req.Done)
	observe("return", err)
	if err != nil {
		writeError(c, err)
		return
	}
	s.steps += 1
	stepReward.Observe(floats.Sum(req.Rewards))
	if req.Done {
		gameOversTotal.Inc()
		s.logger.Warn("game over, episode reported by the simulator", "steps", s.steps)
		s.steps = 0
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (s *AgentServer) handleValue(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	c.JSON(http.StatusOK, tableOf(s.agent.ValueFunction()))
}

func (s *AgentServer) handlePolicy(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	tabular, ok := s.agent.Policy().(interface{ Table() []int })
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "policy has no table"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"table": tabular.Table()})
}

func (s *AgentServer) handleStatus(c *gin.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status":  s.agent.Status().String(),
		"history": s.agent.HistoryLen(),
		"steps":   s.steps,
	})
}

func tableOf(m mat.Matrix) valueResponse {
	r, c := m.Dims()
	values := make([][]float64, r)
	for i := range values {
		values[i] = make([]float64, c)
		mat.Row(values[i], i, m)
	}
	return valueResponse{States: r, Actions: c, Values: values}
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, types.ErrOutOfOrder):
		status = http.StatusConflict
	case errors.Is(err, types.ErrInvalidArgument):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// Start serves in the background until ctx is cancelled
func (s *AgentServer) Start(ctx context.Context) {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("agent server stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.server.Shutdown(sCtx)
	}()
}
