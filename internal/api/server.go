// Package api serves prompt previews over HTTP: stateless render,
// highlight, token and image endpoints, editable sessions, and the
// embedded preview page.
package api

import (
	"math"
	"net/http"
	"unicode/utf8"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"

	"github.com/samcharles93/promptlens/internal/chat"
	"github.com/samcharles93/promptlens/internal/highlight"
	"github.com/samcharles93/promptlens/internal/logger"
	"github.com/samcharles93/promptlens/internal/profile"
	"github.com/samcharles93/promptlens/internal/prompt"
	"github.com/samcharles93/promptlens/internal/raster"
	"github.com/samcharles93/promptlens/internal/session"
	"github.com/samcharles93/promptlens/internal/tplparser"
	"github.com/samcharles93/promptlens/internal/webui"
)

// Config tunes the server. ImageRate is the sustained number of image
// renders per second; zero disables the limit.
type Config struct {
	ImageRate float64
	Image     raster.Options
}

type Server struct {
	builder *prompt.Builder
	store   session.Store
	log     logger.Logger
	images  *rate.Limiter
	image   raster.Options
}

func NewServer(builder *prompt.Builder, store session.Store, log logger.Logger, cfg Config) *Server {
	if store == nil {
		store = session.NewMemoryStore()
	}
	if log == nil {
		log = logger.Discard()
	}
	limit, burst := rate.Inf, 1
	if cfg.ImageRate > 0 {
		limit = rate.Limit(cfg.ImageRate)
		burst = max(1, int(math.Ceil(cfg.ImageRate)))
	}
	return &Server{
		builder: builder,
		store:   store,
		log:     log,
		images:  rate.NewLimiter(limit, burst),
		image:   cfg.Image,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/", s.handleIndex)
	e.GET("/v1/models", s.handleModels)
	e.GET("/v1/styles.css", s.handleStyles)

	// Stateless
	e.POST("/v1/render", s.handleRender)
	e.POST("/v1/highlight", s.handleHighlight)
	e.POST("/v1/tokens", s.handleTokens)
	e.POST("/v1/image", s.handleImage, s.limitImages)

	// Sessions
	e.POST("/v1/sessions", s.handleCreateSession)
	e.GET("/v1/sessions/:id", s.handleGetSession)
	e.DELETE("/v1/sessions/:id", s.handleDeleteSession)
	e.POST("/v1/sessions/:id/messages", s.handleAddMessage)
	e.PUT("/v1/sessions/:id/messages/:index", s.handleSetMessage)
	e.DELETE("/v1/sessions/:id/messages/:index", s.handleDeleteMessage)
	e.POST("/v1/sessions/:id/messages/:index/move", s.handleMoveMessage)
	e.POST("/v1/sessions/:id/messages/:index/tool_calls", s.handleAddToolCall)
	e.PUT("/v1/sessions/:id/messages/:index/tool_calls/:call", s.handleSetToolCall)
	e.DELETE("/v1/sessions/:id/messages/:index/tool_calls/:call", s.handleRemoveToolCall)
	e.PUT("/v1/sessions/:id/options", s.handleSetOptions)
	e.PUT("/v1/sessions/:id/tools", s.handleSetTools)
	e.PUT("/v1/sessions/:id/prompt", s.handleEditPrompt)
	e.DELETE("/v1/sessions/:id/prompt", s.handleResetPrompt)
	e.GET("/v1/sessions/:id/preview", s.handlePreview)
	e.GET("/v1/sessions/:id/image", s.handleSessionImage, s.limitImages)
}

func (s *Server) registry() *profile.Registry { return s.builder.Renderer().Registry() }

func (s *Server) modelOrDefault(model string) string {
	if model == "" {
		return s.registry().Default()
	}
	return model
}

func (s *Server) limitImages(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		if !s.images.Allow() {
			return writeError(c, http.StatusTooManyRequests, "rate_limit_error", "too many image requests", "")
		}
		return next(c)
	}
}

func (s *Server) handleIndex(c *echo.Context) error {
	return c.Blob(http.StatusOK, echo.MIMETextHTMLCharsetUTF8, webui.Index())
}

func (s *Server) handleStyles(c *echo.Context) error {
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", []byte(highlight.Styles()))
}

func (s *Server) handleModels(c *echo.Context) error {
	reg := s.registry()
	list := ModelList{Object: "list", Data: []ModelInfo{}}
	for _, p := range reg.Profiles() {
		list.Data = append(list.Data, ModelInfo{
			Key:       p.Key,
			Name:      p.Name,
			Template:  p.Template,
			Tokenizer: p.TokenizerID,
			Default:   p.Key == reg.Default(),
			Vars:      p.DefaultVars(),
		})
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleRender(c *echo.Context) error {
	req, err := decodeJSON[RenderReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	model := s.modelOrDefault(req.Model)
	msgs := req.Messages
	if msgs == nil {
		msgs = chat.DefaultMessages()
	}
	vars := make(map[string]any, len(req.Vars)+2)
	for k, v := range req.Vars {
		vars[k] = v
	}
	if req.EnableThinking != nil {
		vars["thinking"] = *req.EnableThinking
		vars["enable_thinking"] = *req.EnableThinking
	}
	addGen := true
	if req.AddGenerationPrompt != nil {
		addGen = *req.AddGenerationPrompt
	}
	treq := tplparser.Request{
		Model:               model,
		Messages:            msgs,
		Tools:               req.Tools,
		AddGenerationPrompt: addGen,
		Vars:                vars,
	}

	resp := RenderResp{Model: model}
	resp.Prompt, err = s.builder.Renderer().Display(treq)
	if err != nil {
		s.log.Debug("render failed", "model", model, "error", err)
		resp.Error = err.Error()
	}
	if req.Highlight {
		resp.Segments = s.builder.Classifier().Classify(resp.Prompt, model)
		resp.HTML = highlight.HTML(resp.Segments)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHighlight(c *echo.Context) error {
	req, err := decodeJSON[TextReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	model := s.modelOrDefault(req.Model)
	if _, ok := s.registry().Lookup(model); !ok {
		_, err := s.registry().Get(model)
		return writeNotFound(c, err.Error())
	}
	segs := s.builder.Classifier().Classify(req.Text, model)
	if segs == nil {
		segs = []highlight.Segment{}
	}
	return c.JSON(http.StatusOK, HighlightResp{
		Model:    model,
		Segments: segs,
		HTML:     highlight.HTML(segs),
	})
}

func (s *Server) handleTokens(c *echo.Context) error {
	req, err := decodeJSON[TextReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	model := s.modelOrDefault(req.Model)
	p, ok := s.registry().Lookup(model)
	if !ok {
		_, err := s.registry().Get(model)
		return writeNotFound(c, err.Error())
	}
	return c.JSON(http.StatusOK, TokensResp{
		Model:      model,
		Tokenizer:  p.TokenizerID,
		Tokens:     s.builder.Count(req.Text, model),
		Characters: utf8.RuneCountInString(req.Text),
	})
}

func (s *Server) handleImage(c *echo.Context) error {
	req, err := decodeJSON[ImageReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	opts := s.image
	if req.Options != nil {
		opts = *req.Options
	}
	segs := s.builder.Classifier().Classify(req.Text, s.modelOrDefault(req.Model))
	return s.writePNG(c, segs, opts)
}

func (s *Server) writePNG(c *echo.Context, segs []highlight.Segment, opts raster.Options) error {
	data, err := raster.PNG(segs, opts)
	if err != nil {
		s.log.Error("image encode failed", "error", err)
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error(), "")
	}
	return c.Blob(http.StatusOK, "image/png", data)
}
