package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/golang-migrate/migrate/v4/source"
)

const versionLayout = "20060102150405"

var fileTemplate = template.Must(template.New("migration").Parse(`-- Migration: {{.Name}}{{if eq .Direction "down"}} (Rollback){{end}}
-- Created: {{.Timestamp}}
{{- if .Description}}
-- Description: {{.Description}}
{{- end}}

`))

// File is a newly created up/down migration pair
type File struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPath      string
	DownPath    string
}

// Info describes one migration version found on disk
type Info struct {
	Version    uint
	Identifier string
	HasUp      bool
	HasDown    bool
}

// CreateMigration writes an empty up/down pair named after the current time
func CreateMigration(migrationsDir, name, description string) (*File, error) {
	return createAt(migrationsDir, name, description, time.Now())
}

func createAt(migrationsDir, name, description string, now time.Time) (*File, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	version := now.Format(versionLayout)
	base := filepath.Join(migrationsDir, version+"_"+slug)
	f := &File{
		Version:     version,
		Name:        name,
		Description: description,
		Timestamp:   now.Format(time.RFC3339),
		UpPath:      base + ".up.sql",
		DownPath:    base + ".down.sql",
	}

	if err := writeFile(f.UpPath, f, "up"); err != nil {
		return nil, err
	}
	if err := writeFile(f.DownPath, f, "down"); err != nil {
		_ = os.Remove(f.UpPath)
		return nil, err
	}
	return f, nil
}

func writeFile(path string, f *File, direction string) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	data := struct {
		*File
		Direction string
	}{f, direction}
	if err := fileTemplate.Execute(out, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// sanitizeName lower-cases name and joins its words with underscores
func sanitizeName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	parts := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Map(func(r rune) rune {
			if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
				return unicode.ToLower(r)
			}
			return -1
		}, w)
		if w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, "_")
}

// ListMigrations parses the migration files in dir, ordered by version.
// Files that do not follow the golang-migrate naming scheme are skipped.
func ListMigrations(migrationsDir string) ([]Info, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Info{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	byVersion := make(map[uint]*Info)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m, err := source.DefaultParse(entry.Name())
		if err != nil {
			continue
		}
		info, ok := byVersion[m.Version]
		if !ok {
			info = &Info{Version: m.Version, Identifier: m.Identifier}
			byVersion[m.Version] = info
		}
		switch m.Direction {
		case source.Up:
			info.HasUp = true
		case source.Down:
			info.HasDown = true
		}
	}

	out := make([]Info, 0, len(byVersion))
	for _, info := range byVersion {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// Verify checks that every migration version has both an up and a down file
func Verify(migrationsDir string) error {
	infos, err := ListMigrations(migrationsDir)
	if err != nil {
		return err
	}
	var missing []string
	for _, info := range infos {
		if !info.HasUp {
			missing = append(missing, fmt.Sprintf("%d_%s.up.sql", info.Version, info.Identifier))
		}
		if !info.HasDown {
			missing = append(missing, fmt.Sprintf("%d_%s.down.sql", info.Version, info.Identifier))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("incomplete migrations: %s", strings.Join(missing, ", "))
	}
	return nil
}
