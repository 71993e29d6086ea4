package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"
)

var (
	fileNamePattern = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)
	nonWordPattern  = regexp.MustCompile(`[^a-z0-9]+`)
	skipPattern     = regexp.MustCompile(`[^a-z0-9 _-]+`)
)

const versionWidth = 6

var fileTemplate = template.Must(template.New("migration").Parse(
	`-- {{.Version}}_{{.Name}} ({{.Direction}})
-- Created: {{.Created}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`))

// MigrationFile is a pair of up/down files sharing one version.
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	UpPath      string
	DownPath    string
}

// CreateMigration writes an empty up/down pair numbered one past the highest
// version already in migrationsDir.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create migrations directory: %w", err)
	}

	next, err := nextVersion(migrationsDir)
	if err != nil {
		return nil, err
	}
	version := fmt.Sprintf("%0*d", versionWidth, next)
	base := filepath.Join(migrationsDir, version+"_"+slug)
	mf := &MigrationFile{
		Version:     version,
		Name:        slug,
		Description: strings.TrimSpace(description),
		UpPath:      base + ".up.sql",
		DownPath:    base + ".down.sql",
	}

	created := time.Now().UTC().Format(time.RFC3339)
	if err := writeMigrationFile(mf.UpPath, mf, "up", created); err != nil {
		return nil, err
	}
	if err := writeMigrationFile(mf.DownPath, mf, "down", created); err != nil {
		_ = os.Remove(mf.UpPath)
		return nil, err
	}
	return mf, nil
}

func writeMigrationFile(path string, mf *MigrationFile, direction, created string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	err = fileTemplate.Execute(f, map[string]string{
		"Version":     mf.Version,
		"Name":        mf.Name,
		"Description": mf.Description,
		"Direction":   direction,
		"Created":     created,
	})
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return nil
}

func nextVersion(migrationsDir string) (uint64, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	var highest uint64
	for _, e := range entries {
		m := fileNamePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		v, err := strconv.ParseUint(m[1], 10, 64)
		if err == nil && v > highest {
			highest = v
		}
	}
	return highest + 1, nil
}

// sanitizeName lowercases name and joins its words with underscores.
func sanitizeName(name string) string {
	s := skipPattern.ReplaceAllString(strings.ToLower(name), "")
	s = nonWordPattern.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}

// ListMigrations returns the version_name of every up migration, in order.
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	out := make([]string, 0, len(entries)/2)
	for _, e := range entries {
		m := fileNamePattern.FindStringSubmatch(e.Name())
		if m == nil || e.IsDir() || m[3] != "up" {
			continue
		}
		out = append(out, m[1]+"_"+m[2])
	}
	sort.Strings(out)
	return out, nil
}
