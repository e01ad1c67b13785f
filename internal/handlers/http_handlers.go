package handlers

import (
	"bytes"
	"crypto/subtle"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/logger"

	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/config"
	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/models"
	"github.com/lefteriseleftherioule-stack/lotto-america-trae/internal/services"
)

// HTTPHandler holds the dependencies for the HTTP handlers, like the results
// service and the parsed page templates.
type HTTPHandler struct {
	service          *services.ResultsService
	templates        *template.Template
	allowedOrigin    string
	revalidateSecret string
}

// NewHTTPHandler creates a new HTTPHandler.
func NewHTTPHandler(service *services.ResultsService, templates *template.Template, cfg *config.Config) *HTTPHandler {
	return &HTTPHandler{
		service:          service,
		templates:        templates,
		allowedOrigin:    cfg.AllowedOrigin,
		revalidateSecret: cfg.RevalidateSecret,
	}
}

// RegisterRoutes registers all the application routes. Unmatched methods on
// known paths get a 405 with an Allow header instead of gin's default 404.
func (h *HTTPHandler) RegisterRoutes(router *gin.Engine) {
	router.HandleMethodNotAllowed = true
	router.NoMethod(h.MethodNotAllowed)

	router.GET("/", h.ShowIndex)
	router.GET("/health", h.Health)
	router.GET("/api/lotto", h.GetLottoResults)
	router.OPTIONS("/api/lotto", h.LottoPreflight)
	router.GET("/api/revalidate", h.Revalidate)
}

// GetLottoResults serves the latest drawings. The response is always 200
// with a renderable result set; failures upstream degrade to cached or
// sample data instead of surfacing as errors. With ?debug=1 the results are
// wrapped in an envelope carrying the scrape diagnostics and cache state.
func (h *HTTPHandler) GetLottoResults(c *gin.Context) {
	h.setCORSHeaders(c)

	outcome := h.service.Latest()
	if !debugRequested(c) {
		c.JSON(http.StatusOK, outcome.Results)
		return
	}

	results := outcome.Results
	if outcome.Diagnostics != nil && outcome.Diagnostics.UsedFallback && len(results) > 0 {
		results[0].DebugInfo = outcome.Diagnostics
	}
	c.JSON(http.StatusOK, models.DebugEnvelope{
		Results:     results,
		Diagnostics: outcome.Diagnostics,
		Cache: models.CacheInfo{
			Used:          outcome.CacheUsed,
			AgeMs:         outcome.CacheAge.Milliseconds(),
			LastFetchTime: formatFetchTime(outcome.LastFetchTime),
		},
	})
}

// LottoPreflight answers CORS preflight requests for the results endpoint.
func (h *HTTPHandler) LottoPreflight(c *gin.Context) {
	h.setCORSHeaders(c)
	c.Status(http.StatusOK)
}

// MethodNotAllowed rejects unsupported methods on known routes.
func (h *HTTPHandler) MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodGet)
	c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method not allowed"})
}

// Revalidate forces a cache-bypassing refresh. The secret comes from
// configuration; an unset secret keeps the endpoint locked.
func (h *HTTPHandler) Revalidate(c *gin.Context) {
	secret := c.Query("secret")
	if h.revalidateSecret == "" ||
		subtle.ConstantTimeCompare([]byte(secret), []byte(h.revalidateSecret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid secret"})
		return
	}
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error revalidating"})
		return
	}
	if err := h.service.Refresh(); err != nil {
		logger.Errorf("revalidate failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error revalidating"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"revalidated": true})
}

// Health reports process liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ShowIndex handles the request for the home page, rendering the latest
// drawings as cards.
func (h *HTTPHandler) ShowIndex(c *gin.Context) {
	outcome := h.service.Latest()
	data := gin.H{
		"title":   "Lotto America Results",
		"Results": outcome.Results,
	}
	h.renderPage(c, data, "index.html")
}

// renderPage is a helper to perform a two-step template rendering.
// It first executes the content template into a buffer, then executes the main
// layout template, passing the rendered content as a variable.
func (h *HTTPHandler) renderPage(c *gin.Context, pageData gin.H, contentTmpl string) {
	buf := new(bytes.Buffer)
	err := h.templates.ExecuteTemplate(buf, contentTmpl, pageData)
	if err != nil {
		logger.Infof("Error executing content template %s: %v", contentTmpl, err)
		c.String(http.StatusInternalServerError, "Template rendering error")
		return
	}

	pageData["PageContent"] = template.HTML(buf.String())

	err = h.templates.ExecuteTemplate(c.Writer, "layout.html", pageData)
	if err != nil {
		logger.Infof("Error executing layout template: %v", err)
		c.String(http.StatusInternalServerError, "Template rendering error")
	}
}

func (h *HTTPHandler) setCORSHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", h.allowedOrigin)
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
}

func debugRequested(c *gin.Context) bool {
	q := c.Query("debug")
	return q == "1" || strings.EqualFold(q, "true")
}

func formatFetchTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
