// Package site renders CMS content into HTML pages with pug templates and
// writes the static site.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"github.com/eknkc/pug"
	"github.com/eknkc/pug/compiler"
	"go.uber.org/zap"

	"conference-site/pkg/blocks"
	"conference-site/pkg/content"
	"conference-site/pkg/mappers"
	"conference-site/pkg/models"
	"conference-site/pkg/widgets"
)

// Page views
const (
	ViewIndex    = "index"
	ViewSpeakers = "speakers"
	ViewSpeaker  = "speaker"
	ViewProjects = "projects"
	ViewProject  = "project"
)

// blockAlias matches aliases that may name a partial in views/blocks
var blockAlias = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Renderer compiles pug views from a directory and caches them
type Renderer struct {
	viewsDir     string
	mediaBaseURL string
	logger       *zap.Logger
	now          func() time.Time

	mu        sync.Mutex
	templates map[string]*template.Template
}

// NewRenderer creates a renderer for the views in viewsDir
func NewRenderer(viewsDir, mediaBaseURL string, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if abs, err := filepath.Abs(viewsDir); err == nil {
		viewsDir = abs
	}
	return &Renderer{
		viewsDir:     viewsDir,
		mediaBaseURL: mediaBaseURL,
		logger:       logger,
		now:          time.Now,
		templates:    make(map[string]*template.Template),
	}
}

// Render executes the named view with data
func (r *Renderer) Render(w io.Writer, view string, data any) error {
	tmpl, err := r.template(view + ".pug")
	if err != nil {
		return err
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", view, err)
	}
	return nil
}

// RenderBlocks renders each block with views/blocks/<alias>.pug, falling back
// to the unknown block view when the alias is not a plain name or no template
// exists for it.
func (r *Renderer) RenderBlocks(list []models.Block, data *models.SiteData) ([]template.HTML, error) {
	out := make([]template.HTML, 0, len(list))
	for _, b := range list {
		alias := blocks.TypeAlias(b)
		name := r.blockTemplate(alias)
		if name == "" {
			r.logger.Debug("No template for block", zap.String("alias", alias), zap.String("id", b.ID))
			name = path.Join("blocks", blocks.UnknownBlock+".pug")
		}

		tmpl, err := r.template(name)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, r.blockView(b, data)); err != nil {
			return nil, fmt.Errorf("failed to render block %s (%s): %w", b.ID, alias, err)
		}
		out = append(out, template.HTML(buf.String()))
	}
	return out, nil
}

// blockTemplate returns the partial for alias relative to the views
// directory, or "" when there is none.
func (r *Renderer) blockTemplate(alias string) string {
	if !blockAlias.MatchString(alias) {
		return ""
	}
	name := path.Join("blocks", alias+".pug")
	if _, err := os.Stat(filepath.Join(r.viewsDir, filepath.FromSlash(name))); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return name
}

// template compiles name, a slash-separated path relative to the views
// directory. Extends and includes resolve against the same directory.
func (r *Renderer) template(name string) (*template.Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if tmpl, ok := r.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := pug.CompileFile(name, pug.Options{Dir: compiler.FsDir(r.viewsDir)})
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", name, err)
	}
	r.templates[name] = tmpl
	return tmpl, nil
}

// BlockView is the data a block template is executed with
type BlockView struct {
	Alias      string
	ID         string
	Title      string
	Text       template.HTML
	Properties map[string]any
	Site       *models.SiteData
	Speakers   []SpeakerCard
	Countdown  widgets.Remaining
	Images     []string
	Columns    int
	Board      [][]int
	Mines      int
	IntervalMs int64

	FAQs       []FAQItem
	QueryCount string
	Events     []models.Event
	Fields     []FormField
	Copy       Copy
	Modal      Modal
	Grid       []int
	Total      int
}

func (r *Renderer) blockView(b models.Block, data *models.SiteData) BlockView {
	if data == nil {
		data = &models.SiteData{}
	}
	props := b.Properties
	title, _ := props["title"].(string)

	text := content.RenderRichText(props["text"])
	if text == "" {
		text = content.RenderRichText(props["content"])
	}

	view := BlockView{
		Alias:      blocks.TypeAlias(b),
		ID:         b.ID,
		Title:      title,
		Text:       template.HTML(text),
		Properties: props,
		Site:       data,
		Speakers:   speakerCards(data.Speakers),
		Countdown:  widgets.Countdown(r.now()),
		IntervalMs: widgets.SpeakerInterval.Milliseconds(),
	}

	if raw, ok := props["images"].([]any); ok {
		for _, item := range raw {
			if url := mappers.ResolveMedia(item); url != "" {
				view.Images = append(view.Images, mappers.AbsoluteMediaURL(r.mediaBaseURL, url))
			}
		}
		view.Columns = widgets.GalleryColumns(len(view.Images))
		view.IntervalMs = widgets.GalleryInterval.Milliseconds()
	}

	if view.Alias == "minesweeperGame" {
		view.Board = emptyBoard(widgets.DefaultRows, widgets.DefaultCols)
		view.Mines = widgets.DefaultMines
	}

	r.decorate(&view, data)
	return view
}

func emptyBoard(rows, cols int) [][]int {
	board := make([][]int, rows)
	for r := range board {
		board[r] = make([]int, cols)
	}
	return board
}
