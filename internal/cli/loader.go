package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/specbuilder/internal/harness"
)

// LoadError represents an error that occurred while loading a scenario
// or its schema.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// loadScenario reads a scenario file. A non-empty schemaDir replaces the
// schema the scenario names.
func loadScenario(path, schemaDir string) (*harness.Scenario, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("scenario not found: %s", path)}
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "failed to load scenario", Err: err}
	}

	if schemaDir != "" {
		if _, err := os.Stat(schemaDir); os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema directory not found: %s", schemaDir)}
		}
		scenario.Schema = schemaDir
	}
	return scenario, nil
}

// loadPlan loads a scenario and resolves it against its schema.
func loadPlan(path string, opts *RootOptions, logger *slog.Logger) (*harness.Scenario, *harness.Plan, error) {
	scenario, err := loadScenario(path, opts.Schema)
	if err != nil {
		return nil, nil, err
	}

	sch, err := harness.LoadSchema(scenario)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeLoadFailed, Message: "failed to load schema", Err: err}
	}

	plan, err := harness.NewPlan(sch, scenario, logger)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeBuildFailed, Message: "invalid scenario", Err: err}
	}
	return scenario, plan, nil
}

// findScenarioFiles returns path itself if it is a file, or every YAML
// file below it whose base name matches filter.
func findScenarioFiles(path string, filter string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(p)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(p), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, p)
		return nil
	})

	return files, err
}

// loadErrorCode returns the code of a LoadError, or the generic code.
func loadErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeGeneric
}
