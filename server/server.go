// Package server exposes driving episodes over HTTP.
//
// Every episode owns its own Track guarded by its own lock, so requests on
// different episodes never contend.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/zeu5/carsim/geometry"
	"github.com/zeu5/carsim/log"
	"github.com/zeu5/carsim/track"
	"github.com/zeu5/carsim/vehicle"
)

type Config struct {
	Addr string
	// 0 for no limit
	MaxEpisodes int

	Layout  track.Layout
	Vehicle vehicle.Config
	Reward  track.RewardConfig

	Logger log.Log
}

// StepRequest drives an episode by one tick. Action and Angle are exclusive,
// without either the current steering is kept. StepCount defaults to the
// number of steps taken since the last reset.
type StepRequest struct {
	Action    *int     `json:"action,omitempty"`
	Angle     *float64 `json:"angle,omitempty"`
	StepCount *int     `json:"step_count,omitempty"`
}

type EpisodeResponse struct {
	ID         string                         `json:"id"`
	State      track.State                    `json:"state"`
	Reward     *float64                       `json:"reward,omitempty"`
	Status     string                         `json:"status"`
	Done       bool                           `json:"done"`
	Steps      int                            `json:"steps"`
	Pose       vehicle.Pose                   `json:"pose"`
	WheelAngle float64                        `json:"wheel_angle"`
	Points     map[vehicle.Tag]geometry.Point `json:"points"`
}

type episode struct {
	lock  *sync.Mutex
	track *track.Track
	steps int
}

func (e *episode) response(id string) EpisodeResponse {
	points := make(map[vehicle.Tag]geometry.Point, len(vehicle.AllTags))
	for _, tag := range vehicle.AllTags {
		points[tag] = e.track.Position(tag)
	}
	return EpisodeResponse{
		ID:         id,
		State:      e.track.State(),
		Status:     e.track.Status().String(),
		Done:       e.track.Done(),
		Steps:      e.steps,
		Pose:       e.track.Pose(),
		WheelAngle: e.track.WheelAngle(),
		Points:     points,
	}
}

type Server struct {
	config Config
	logger log.Log
	server *http.Server

	lock     *sync.Mutex
	episodes map[string]*episode
}

func New(config Config) *Server {
	if config.Logger == nil {
		config.Logger = log.NewNop()
	}
	s := &Server{
		config:   config,
		logger:   config.Logger.With(log.String("component", "server")),
		lock:     new(sync.Mutex),
		episodes: make(map[string]*episode),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)
	r.GET("/track", s.handleTrack)
	r.POST("/episodes", s.handleCreate)
	r.GET("/episodes/:id", s.handleGet)
	r.POST("/episodes/:id/reset", s.handleReset)
	r.POST("/episodes/:id/step", s.handleStep)
	r.DELETE("/episodes/:id", s.handleDelete)

	s.server = &http.Server{
		Addr:    config.Addr,
		Handler: r,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()
	s.logger.Info("serving episodes", log.String("addr", s.config.Addr))

	select {
	case err := <-errCh:
		return errors.Wrap(err, "listening")
	case <-ctx.Done():
	}

	sCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.server.Shutdown(sCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) logRequests(c *gin.Context) {
	if s.logger.GetLevel() > log.LevelDebug {
		c.Next()
		return
	}
	start := time.Now()
	c.Next()
	s.logger.Debug("request",
		log.String("method", c.Request.Method),
		log.String("path", c.Request.URL.Path),
		log.Int("status", c.Writer.Status()),
		log.Duration("duration", time.Since(start)),
	)
}

func (s *Server) create() (string, *episode, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.config.MaxEpisodes > 0 && len(s.episodes) >= s.config.MaxEpisodes {
		return "", nil, ErrTooManyEpisodes
	}
	id := uuid.NewString()
	e := &episode{
		lock: new(sync.Mutex),
		track: track.New(s.config.Layout, s.config.Vehicle,
			track.WithReward(s.config.Reward),
			track.WithLogger(s.logger.With(log.String("episode", id))),
		),
	}
	s.episodes[id] = e
	return id, e, nil
}

func (s *Server) get(id string) (*episode, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	e, ok := s.episodes[id]
	if !ok {
		return nil, ErrEpisodeNotFound
	}
	return e, nil
}

func (s *Server) remove(id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.episodes[id]; !ok {
		return ErrEpisodeNotFound
	}
	delete(s.episodes, id)
	return nil
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.Cause(err) {
	case ErrEpisodeNotFound:
		status = http.StatusNotFound
	case ErrTooManyEpisodes:
		status = http.StatusTooManyRequests
	case ErrInvalidStep:
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleTrack(c *gin.Context) {
	c.JSON(http.StatusOK, s.config.Layout)
}

func (s *Server) handleCreate(c *gin.Context) {
	id, e, err := s.create()
	if err != nil {
		writeError(c, err)
		return
	}
	s.logger.Debug("episode created", log.String("episode", id))

	e.lock.Lock()
	defer e.lock.Unlock()
	c.JSON(http.StatusCreated, e.response(id))
}

func (s *Server) handleGet(c *gin.Context) {
	id := c.Param("id")
	e, err := s.get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	c.JSON(http.StatusOK, e.response(id))
}

func (s *Server) handleReset(c *gin.Context) {
	id := c.Param("id")
	e, err := s.get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	e.lock.Lock()
	defer e.lock.Unlock()

	e.track.Reset()
	e.steps = 0
	c.JSON(http.StatusOK, e.response(id))
}

func (s *Server) handleStep(c *gin.Context) {
	id := c.Param("id")
	e, err := s.get(id)
	if err != nil {
		writeError(c, err)
		return
	}

	req := StepRequest{}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
			return
		}
	}
	if req.Action != nil && req.Angle != nil {
		writeError(c, ErrInvalidStep)
		return
	}

	e.lock.Lock()
	defer e.lock.Unlock()

	stepCount := e.steps
	if req.StepCount != nil {
		stepCount = *req.StepCount
	}
	var reward float64
	switch {
	case req.Action != nil:
		_, reward = e.track.Step(*req.Action, stepCount)
	case req.Angle != nil:
		_, reward = e.track.StepAngle(*req.Angle, stepCount)
	default:
		_, reward = e.track.Advance(stepCount)
	}
	e.steps += 1

	resp := e.response(id)
	resp.Reward = &reward
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleDelete(c *gin.Context) {
	id := c.Param("id")
	if err := s.remove(id); err != nil {
		writeError(c, err)
		return
	}
	s.logger.Debug("episode deleted", log.String("episode", id))
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
