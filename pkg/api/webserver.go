package api

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chenBenjamin97/pitch-teams/pkg/config"
	"github.com/chenBenjamin97/pitch-teams/pkg/logging"
	"github.com/chenBenjamin97/pitch-teams/pkg/store"
	"github.com/chenBenjamin97/pitch-teams/pkg/teams"
	"github.com/chenBenjamin97/pitch-teams/pkg/utils"
	"github.com/chenBenjamin97/pitch-teams/pkg/video"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Tagger runs the tagging pipeline for an uploaded video
type Tagger interface {
	Tag(ctx context.Context, srcVideoName string) (*video.Summary, error)
}

// Server serves the client, the videos and the team results over HTTP.
// Uploaded videos are tagged in background goroutines that live until Close.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	sessions *teams.Registry
	tagger   Tagger
	log      *logging.Logger

	runsCtx    context.Context
	cancelRuns context.CancelFunc
	runs       sync.WaitGroup
}

func NewServer(cfg *config.Config, st *store.Store, sessions *teams.Registry, tagger Tagger, log *logging.Logger) *Server {
	runsCtx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:        cfg,
		store:      st,
		sessions:   sessions,
		tagger:     tagger,
		log:        log,
		runsCtx:    runsCtx,
		cancelRuns: cancel,
	}
}

// SetRouter builds the gin engine with the client files and every /api route
func (s *Server) SetRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	//serve html pages to client
	if static := s.cfg.Frontend.StaticFilesPath; static != "" {
		if _, err := os.Stat(static); err == nil {
			r.Static("/client", static)
			r.StaticFile("/", filepath.Join(static, "home_page/dist/index.html"))
		}
	}

	apiRoutes := r.Group("/api")

	apiRoutes.GET("/ReadyVideosNames", s.listDir(s.cfg.Directory.Ready))
	apiRoutes.GET("/UserUploadsVideosNames", s.listDir(s.cfg.Directory.Source))
	apiRoutes.GET("/Play", s.play)
	apiRoutes.POST("/Upload", s.upload)

	apiRoutes.GET("/Teams", s.teams)
	apiRoutes.GET("/Runs", s.listRuns)
	apiRoutes.GET("/Runs/:id", s.getRun)
	apiRoutes.GET("/Live", s.liveIDs)
	apiRoutes.GET("/Live/:id", s.live)
	apiRoutes.GET("/Chart/:id", s.chart)

	return r
}

// Run listens on the configured port until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.HTTP.Port,
		Handler:           s.SetRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", "addr", srv.Addr)
		errC <- srv.ListenAndServe()
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Close cancels every background tagging run and waits for them to return
func (s *Server) Close() {
	s.cancelRuns()
	s.runs.Wait()
}

// startTagging tags the video in the background, errors are logged and recorded on the run
func (s *Server) startTagging(name string) {
	s.runs.Add(1)
	go func() {
		defer s.runs.Done()
		if _, err := s.tagger.Tag(s.runsCtx, name); err != nil {
			s.log.WithVideo(name).Error("api/Upload: tagging failed", "error", err)
		}
	}()
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		s.log.Debug("http request",
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", ctx.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func (s *Server) listDir(dir string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if names, err := utils.ListDir(dir); err != nil {
			s.log.Error("api: could not list directory", "dir", dir, "error", err)
			ctx.Status(http.StatusInternalServerError)
		} else {
			ctx.JSON(http.StatusOK, names)
		}
	}
}

func (s *Server) play(ctx *gin.Context) {
	videoName := ctx.Query("name")
	if _, err := utils.SafeName(videoName); err != nil {
		ctx.Status(http.StatusNotAcceptable) //missing url parameter
		return
	}

	analyzed := ctx.Query("analyzed")
	if analyzed != "true" && analyzed != "false" {
		ctx.Status(http.StatusNotAcceptable) //missing url parameter
		return
	}

	dir := s.cfg.Directory.Source
	if analyzed == "true" {
		dir = s.cfg.Directory.Ready
	}
	videoPath := filepath.Join(dir, videoName+"."+s.cfg.Video.ProdFormat)

	if _, err := os.Stat(videoPath); err != nil {
		if os.IsNotExist(err) {
			ctx.Status(http.StatusNotFound)
		} else {
			ctx.Status(http.StatusInternalServerError)
		}
		return
	}

	ctx.Header("Content-Type", "video/"+s.cfg.Video.ProdFormat)
	http.ServeFile(ctx.Writer, ctx.Request, videoPath)
}

func (s *Server) upload(ctx *gin.Context) {
	fHeader, err := ctx.FormFile("video")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing 'video' form file"})
		return
	}

	name, err := utils.SafeName(fHeader.Filename)
	if err != nil {
		ctx.JSON(http.StatusNotAcceptable, gin.H{"error": err.Error()})
		return
	}

	s.log.Info("api/Upload: received new file", "name", name, "size", fHeader.Size)

	//the exclusive create is the duplicate check
	srcFilePath := filepath.Join(s.cfg.Directory.Source, name)
	dst, err := os.OpenFile(srcFilePath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if errors.Is(err, fs.ErrExist) {
		ctx.JSON(http.StatusNotAcceptable, gin.H{"error": "video already uploaded"})
		return
	}
	if err != nil {
		s.log.Error("api/Upload: could not create file", "path", srcFilePath, "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	if err := saveUpload(fHeader, dst); err != nil {
		os.Remove(srcFilePath)
		s.log.Error("api/Upload: could not write file", "path", srcFilePath, "error", err)
		ctx.Status(http.StatusInternalServerError)
		return
	}

	s.startTagging(name)
	ctx.JSON(http.StatusAccepted, gin.H{"name": name})
}

// saveUpload copies the uploaded form file into dst and closes it
func saveUpload(fHeader *multipart.FileHeader, dst *os.File) error {
	src, err := fHeader.Open()
	if err != nil {
		dst.Close()
		return err
	}
	defer src.Close()

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}

	return dst.Close()
}
