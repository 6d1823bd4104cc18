package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/vvka-141/deckpack/internal/config"
	"github.com/vvka-141/deckpack/internal/engine"
	"github.com/vvka-141/deckpack/internal/logging"
	"github.com/vvka-141/deckpack/internal/schema"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// buildEngine assembles an Engine for a command. The schema directory is
// resolved in precedence order: the --schema-dir flag, deckpack.yaml in the
// project directory, the DECKPACK_SCHEMA_DIR environment variable, then a
// "schemas" directory under the working directory. When none exists the
// engine runs without schema validation.
func buildEngine(projectDir, schemaDirFlag string, verbose bool) (*engine.Engine, deckpack.Logger, error) {
	_ = godotenv.Load()

	log := logging.NewConsoleLogger(verbose)

	explicit := schemaDirFlag
	opts := engine.Options{Logger: log}
	skipSchema := false
	if projectDir != "" {
		cfg, err := config.Load(projectDir)
		switch {
		case err == nil:
			if explicit == "" {
				explicit = cfg.Validation.SchemaDir
			}
			skipSchema = cfg.Validation.SkipSchema
			opts.DisableRepair = !cfg.RepairEnabled()
		case errors.Is(err, config.ErrConfigNotFound):
			// No project config, defaults apply.
		default:
			return nil, nil, fmt.Errorf("%w: %v", deckpack.ErrInvalidConfig, err)
		}
	}

	if skipSchema {
		log.Verbose("schema validation disabled by %s", config.ConfigFileName)
	} else {
		schemaDir, err := schema.FindSchemaDir(explicit)
		if err != nil {
			log.Verbose("no schemas directory found, schema validation disabled")
		} else {
			opts.SchemaDir = schemaDir
		}
	}

	return engine.New(opts), log, nil
}

// loadPackageDir reads an unpacked part tree from disk into a Package.
func loadPackageDir(dir string) (*deckpack.Package, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", deckpack.ErrPartNotFound, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", deckpack.ErrInvalidConfig, dir)
	}

	pkg := deckpack.NewPackage()
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		// Project files living next to the unpacked tree are not package
		// parts and must never end up inside an archive.
		if name == config.ConfigFileName || name == ".env" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		pkg.SetPart(name, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pkg, nil
}

// writePackageDir writes every part of a Package under dir, creating
// intermediate directories as needed.
func writePackageDir(pkg *deckpack.Package, dir string) error {
	for _, p := range pkg.Paths() {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		data, _ := pkg.Part(p)
		if err := os.WriteFile(full, data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// removeFromDir deletes the named parts from an unpacked tree and prunes
// directories that became empty.
func removeFromDir(dir string, paths []string) error {
	for _, p := range paths {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return err
		}
		parent := filepath.Dir(full)
		for parent != dir && parent != "." {
			if err := os.Remove(parent); err != nil {
				break
			}
			parent = filepath.Dir(parent)
		}
	}
	return nil
}

// packageStem strips the extension from an archive filename for use as the
// default output directory name.
func packageStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
