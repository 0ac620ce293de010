package handler

import (
	"carlton/internal/logger"
	"carlton/internal/service"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
)

// SeoHandler holds dependencies for SEO-related handlers.
type SeoHandler struct {
	site    *service.SiteService
	baseURL string
	log     logger.Logger
}

// NewSeoHandler creates a new SeoHandler. baseURL is the public origin, e.g. https://carlton.mg.
func NewSeoHandler(site *service.SiteService, baseURL string, log logger.Logger) *SeoHandler {
	return &SeoHandler{site: site, baseURL: strings.TrimRight(baseURL, "/"), log: log}
}

// robotsHandler serves robots.txt, keeping crawlers out of the admin.
func (h *SeoHandler) robotsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "User-agent: *")
	fmt.Fprintln(w, "Allow: /")
	fmt.Fprintln(w, "Disallow: /admin")
	fmt.Fprintln(w, "Disallow: /api/")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Sitemap: %s/sitemap.xml\n", h.baseURL)
}

const sitemapDateFormat = "2006-01-02"

type sitemapURL struct {
	XMLName xml.Name `xml:"url"`
	Loc     string   `xml:"loc"`
	LastMod string   `xml:"lastmod,omitempty"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// sitemapHandler generates and serves a dynamic sitemap.xml.
func (h *SeoHandler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := h.site.Sitemap(r.Context())
	if err != nil {
		h.log.Error(err, "Failed to build sitemap")
		http.Error(w, "Failed to build sitemap", http.StatusInternalServerError)
		return
	}

	sitemap := urlSet{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, len(entries)),
	}
	for i, e := range entries {
		sitemap.URLs[i] = sitemapURL{Loc: h.baseURL + e.Path}
		if !e.LastMod.IsZero() {
			sitemap.URLs[i].LastMod = e.LastMod.Format(sitemapDateFormat)
		}
	}

	w.Header().Set("Content-Type", "application/xml")
	_, _ = w.Write([]byte(xml.Header))
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(sitemap); err != nil {
		h.log.Error(err, "Failed to encode sitemap")
	}
}
