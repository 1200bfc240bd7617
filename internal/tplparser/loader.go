package tplparser

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/fsnotify/fsnotify"

	"github.com/samcharles93/promptlens/internal/logger"
)

//go:embed templates/*.tmpl
var bundled embed.FS

// Loader resolves template references to parsed templates. References are
// looked up in the override directory first, then in the bundled set.
// Parsed templates are cached until Invalidate or a watched file changes.
type Loader struct {
	dir string
	log logger.Logger

	mu    sync.Mutex
	cache map[string]*template.Template
}

// NewLoader returns a loader. dir may be empty to use only bundled templates.
func NewLoader(dir string, log logger.Logger) *Loader {
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{
		dir:   dir,
		log:   log,
		cache: make(map[string]*template.Template),
	}
}

// Dir returns the override directory, or "".
func (l *Loader) Dir() string { return l.dir }

// Load returns the parsed template for ref.
func (l *Loader) Load(ref string) (*template.Template, error) {
	if ref == "" || strings.Contains(ref, "..") || filepath.IsAbs(ref) {
		return nil, &TemplateLoadError{Ref: ref, Err: errors.New("invalid template reference")}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if tpl, ok := l.cache[ref]; ok {
		return tpl, nil
	}

	src, origin, err := l.read(ref)
	if err != nil {
		return nil, &TemplateLoadError{Ref: ref, Err: err}
	}
	tpl, err := template.New(ref).Funcs(FuncMap()).Parse(string(src))
	if err != nil {
		return nil, &TemplateLoadError{Ref: ref, Err: err}
	}
	l.cache[ref] = tpl
	l.log.Debug("template loaded", "ref", ref, "origin", origin)
	return tpl, nil
}

func (l *Loader) read(ref string) ([]byte, string, error) {
	if l.dir != "" {
		path := filepath.Join(l.dir, ref)
		src, err := os.ReadFile(path)
		if err == nil {
			return src, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
	}
	src, err := bundled.ReadFile("templates/" + ref)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("template %q not found", ref)
		}
		return nil, "", err
	}
	return src, "bundled", nil
}

// Names lists every resolvable template reference.
func (l *Loader) Names() ([]string, error) {
	seen := map[string]bool{}
	entries, err := bundled.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		seen[e.Name()] = true
	}
	if l.dir != "" {
		entries, err := os.ReadDir(l.dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".tmpl") {
				seen[e.Name()] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Invalidate drops ref from the cache. An empty ref drops everything.
func (l *Loader) Invalidate(ref string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ref == "" {
		clear(l.cache)
		return
	}
	delete(l.cache, ref)
}

// Watch invalidates cached templates when files in the override directory
// change. It blocks until ctx is done and is a no-op without a directory.
func (l *Loader) Watch(ctx context.Context) error {
	if l.dir == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("template watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(l.dir); err != nil {
		return fmt.Errorf("watch %s: %w", l.dir, err)
	}
	l.log.Info("watching templates", "dir", l.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			ref := filepath.Base(ev.Name)
			l.Invalidate(ref)
			l.log.Debug("template changed", "ref", ref, "op", ev.Op.String())
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			l.log.Warn("template watcher error", "error", err)
		}
	}
}
