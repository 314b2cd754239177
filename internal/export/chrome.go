package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const chromeFooter = `<div style="width:100%;text-align:center;font-size:9pt;">` +
	`Page <span class="pageNumber"></span> of <span class="totalPages"></span></div>`

var chromePage = template.Must(template.New("transcript").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>{{.Style}}</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="stamp">{{.Stamp}}</p>
{{range .Paragraphs}}<p>{{.}}</p>
{{end}}</body>
</html>
`))

// ChromeRenderer prints transcripts through headless Chrome. The browser
// shapes complex scripts (conjuncts, matras) that fpdf draws glyph by glyph.
type ChromeRenderer struct {
	font     Font
	timeout  time.Duration
	execPath string
}

// NewChromeRenderer creates a renderer; execPath may be empty to let chromedp
// find a browser
func NewChromeRenderer(font Font, execPath string, timeout time.Duration) *ChromeRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChromeRenderer{font: font, timeout: timeout, execPath: execPath}
}

// Render loads the transcript page into a fresh tab and prints it as A4
func (r *ChromeRenderer) Render(ctx context.Context, content Content) ([]byte, error) {
	html, err := r.html(content)
	if err != nil {
		return nil, err
	}

	opts := chromedp.DefaultExecAllocatorOptions[:]
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	tabCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	tabCtx, cancel = context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	var pdf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.79).
				WithMarginBottom(0.98).
				WithMarginLeft(0.79).
				WithMarginRight(0.79).
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate("<span></span>").
				WithFooterTemplate(chromeFooter).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print: %w", err)
	}
	return pdf, nil
}

func (r *ChromeRenderer) html(content Content) (string, error) {
	style := fmt.Sprintf(`@font-face { font-family: %q; src: url(data:font/ttf;base64,%s); }
body { font-family: %q; font-size: 11pt; line-height: 1.6; margin: 0; }
h1 { font-size: 18pt; font-weight: normal; text-align: center; margin: 0 0 4mm; }
.stamp { font-size: 10pt; text-align: center; margin: 0 0 8mm; }
p { margin: 0; white-space: pre-wrap; }`,
		r.font.Family, base64.StdEncoding.EncodeToString(r.font.Data), r.font.Family)

	var buf bytes.Buffer
	err := chromePage.Execute(&buf, map[string]any{
		"Title":      content.Title,
		"Stamp":      content.Stamp,
		"Style":      template.CSS(style),
		"Paragraphs": strings.Split(strings.ReplaceAll(content.Body, "\r\n", "\n"), "\n"),
	})
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}
