package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/lshigami/uteach/config"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxPageBytes bounds how much of a fetched page is read.
const maxPageBytes = 10 << 20

type ExtractorService interface {
	// ExtractFromDocument returns the text of a PDF, one line group per page.
	ExtractFromDocument(data []byte) (string, error)
	// ExtractFromURL fetches a single HTML page and returns its visible text.
	ExtractFromURL(ctx context.Context, rawURL string) (string, error)
}

type extractorService struct {
	httpClient *http.Client
}

func NewExtractorService(cfg *config.Config) ExtractorService {
	timeout := cfg.Extractor.FetchTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewExtractorServiceWithClient(&http.Client{Timeout: timeout})
}

func NewExtractorServiceWithClient(client *http.Client) ExtractorService {
	return &extractorService{httpClient: client}
}

func (s *extractorService) ExtractFromDocument(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrDocumentParse, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentParse, err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			log.Debug().Err(pageErr).Int("page", i).Msg("PDF page yielded no text")
			pageText = ""
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, "\n"), nil
}

func (s *extractorService) ExtractFromURL(ctx context.Context, rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%w: unsupported url %q", ErrFetch, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to fetch %s: %v", ErrFetch, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %s returned status %d", ErrFetch, rawURL, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse html from %s: %v", ErrFetch, rawURL, err)
	}
	return VisibleText(doc), nil
}

var skippedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Header: true,
	atom.Footer: true,
	atom.Nav:    true,
}

// VisibleText joins the text nodes of doc outside script, style, header, footer
// and nav elements, with every whitespace run collapsed to one space.
func VisibleText(doc *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skippedElements[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(sb.String()), " ")
}
