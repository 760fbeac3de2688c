package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spotii/internal/ai"
	"spotii/internal/catalog"
	"spotii/internal/playlist"
)

type Generator interface {
	Generate(ctx context.Context, c ai.Criteria) ([]ai.Song, error)
}

type Saver interface {
	Save(ctx context.Context, req playlist.SaveRequest) (playlist.Outcome, error)
}

// Library is the read and playback side of the user's Spotify account.
type Library interface {
	Playlists(ctx context.Context) (catalog.PlaylistPage, error)
	Control(ctx context.Context, action catalog.Action) error
	CurrentlyPlaying(ctx context.Context) (catalog.NowPlaying, error)
}

// Server exposes playlist generation and the Spotify proxies over HTTP.
// Saver and Library are nil when nobody is logged in to Spotify; their
// routes then answer 401.
type Server struct {
	Generator Generator
	Saver     Saver
	Library   Library
	Logger    *slog.Logger
}

func (s *Server) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	api := r.Group("/api")
	api.POST("/generate", s.Generate)
	api.POST("/save-playlist", s.SavePlaylist)
	api.GET("/spotify-playlists", s.Playlists)
	api.POST("/spotify/playback-control", s.PlaybackControl)
	api.GET("/spotify/currently-playing", s.CurrentlyPlaying)
	return r
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger().Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated with Spotify"})
}

func (s *Server) Generate(c *gin.Context) {
	var req ai.Criteria
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt or mood is required"})
		return
	}
	if s.Generator == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate playlist"})
		return
	}
	songs, err := s.Generator.Generate(c.Request.Context(), req)
	if err != nil {
		s.logger().Error("generation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate playlist"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"songs": songs})
}

func (s *Server) SavePlaylist(c *gin.Context) {
	if s.Saver == nil {
		unauthorized(c)
		return
	}
	var req playlist.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	out, err := s.Saver.Save(c.Request.Context(), req)
	if errors.Is(err, playlist.ErrNoSongs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No songs to save"})
		return
	}
	if err != nil {
		s.logger().Error("save playlist failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save playlist to Spotify"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"playlistUrl":    out.PlaylistURL,
		"tracksAdded":    out.TracksAdded,
		"tracksNotFound": out.TracksNotFound,
		"notFound":       out.NotFound,
	})
}

func (s *Server) Playlists(c *gin.Context) {
	if s.Library == nil {
		unauthorized(c)
		return
	}
	page, err := s.Library.Playlists(c.Request.Context())
	if err != nil {
		s.logger().Error("get playlists failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch playlists"})
		return
	}
	c.JSON(http.StatusOK, page)
}

type playbackRequest struct {
	Action string `json:"action"`
}

func (s *Server) PlaybackControl(c *gin.Context) {
	if s.Library == nil {
		unauthorized(c)
		return
	}
	var req playbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	action, err := catalog.ParseAction(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action. Must be: play, pause, next, or previous"})
		return
	}
	if err := s.Library.Control(c.Request.Context(), action); err != nil {
		s.logger().Error("playback control failed", "action", action, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to " + string(action) + " playback"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "action": action})
}

func (s *Server) CurrentlyPlaying(c *gin.Context) {
	if s.Library == nil {
		unauthorized(c)
		return
	}
	np, err := s.Library.CurrentlyPlaying(c.Request.Context())
	if err != nil {
		s.logger().Error("currently playing failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch currently playing track"})
		return
	}
	c.JSON(http.StatusOK, np)
}
