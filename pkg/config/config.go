// Copyright 2026 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package config loads job files describing a batch of archive rewrites.
package config

import (
	"bytes"
	"crypto"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/google/jarpatch/internal/hashext"
	"github.com/google/jarpatch/pkg/rewrite"
	"github.com/kaptinlin/jsonschema"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputDirectory = "target"
	DefaultLocalRepository = "~/.m2/repository"
	DefaultDigest          = "sha1"
)

// Format is the encoding of a job file.
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
	TOML Format = "toml"
)

// ErrInvalid is wrapped by all job file validation failures.
var ErrInvalid = errors.New("invalid job file")

// FormatOf returns the format implied by a file's extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	case ".toml":
		return TOML, nil
	default:
		return "", errors.Errorf("unsupported job file extension: %q", filepath.Ext(path))
	}
}

// Artifact is one entry of a job file.
type Artifact struct {
	Artifact        string `yaml:"artifact" toml:"artifact"`
	JarFile         string `yaml:"jarFile" toml:"jarFile"`
	ManifestFile    string `yaml:"manifestFile" toml:"manifestFile"`
	Mode            string `yaml:"mode" toml:"mode"`
	PublishArtifact bool   `yaml:"publishArtifact" toml:"publishArtifact"`
}

// File is a parsed job file.
type File struct {
	OutputDirectory string     `yaml:"outputDirectory" toml:"outputDirectory"`
	LocalRepository string     `yaml:"localRepository" toml:"localRepository"`
	Digests         []string   `yaml:"digests" toml:"digests"`
	RawCopy         bool       `yaml:"rawCopy" toml:"rawCopy"`
	Artifacts       []Artifact `yaml:"artifacts" toml:"artifacts"`
}

//go:embed schema.json
var schemaJSON []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.NewCompiler().Compile(schemaJSON)
})

// Parse validates and decodes a job file, applying defaults. Paths are left
// as written.
func Parse(data []byte, format Format) (*File, error) {
	doc, err := decodeGeneric(data, format)
	if err != nil {
		return nil, err
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	f := new(File)
	switch format {
	case TOML:
		err = toml.Unmarshal(data, f)
	default:
		d := yaml.NewDecoder(bytes.NewReader(data))
		d.KnownFields(true)
		err = d.Decode(f)
		if err == io.EOF {
			err = nil
		}
	}
	if err != nil {
		return nil, errors.Wrapf(ErrInvalid, "decoding %s: %v", format, err)
	}
	f.applyDefaults()
	return f, nil
}

// Load reads the job file at path from fs. Relative paths in the file are
// resolved against its directory and a leading ~ expands to the home directory.
func Load(fs billy.Filesystem, path string) (*File, error) {
	home, _ := os.UserHomeDir()
	return load(fs, path, home)
}

func load(fs billy.Filesystem, path, home string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	r, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening job file")
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading job file")
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	f.Resolve(filepath.Dir(path), home)
	return f, nil
}

func decodeGeneric(data []byte, format Format) (any, error) {
	var doc any
	var err error
	switch format {
	case YAML, JSON:
		err = yaml.Unmarshal(data, &doc)
	case TOML:
		var m map[string]any
		err = toml.Unmarshal(data, &m)
		if m != nil {
			doc = m
		}
	default:
		return nil, errors.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrInvalid, "parsing %s: %v", format, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func validate(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return errors.Wrap(err, "compiling job file schema")
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrapf(ErrInvalid, "encoding document: %v", err)
	}
	result := schema.ValidateJSON(raw)
	if result.IsValid() {
		return nil
	}
	var msgs []string
	for path, e := range result.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %v", path, e))
	}
	sort.Strings(msgs)
	return errors.Wrap(ErrInvalid, strings.Join(msgs, "; "))
}

func (f *File) applyDefaults() {
	if f.OutputDirectory == "" {
		f.OutputDirectory = DefaultOutputDirectory
	}
	if f.LocalRepository == "" {
		f.LocalRepository = DefaultLocalRepository
	}
	if len(f.Digests) == 0 {
		f.Digests = []string{DefaultDigest}
	}
}

// Resolve expands a leading ~ to home and makes relative paths absolute
// against base. Artifact coordinates are not paths and are left alone.
func (f *File) Resolve(base, home string) {
	resolve := func(p string) string {
		if p == "" {
			return p
		}
		p = ExpandHome(p, home)
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		return p
	}
	f.OutputDirectory = resolve(f.OutputDirectory)
	f.LocalRepository = resolve(f.LocalRepository)
	for i := range f.Artifacts {
		f.Artifacts[i].JarFile = resolve(f.Artifacts[i].JarFile)
		f.Artifacts[i].ManifestFile = resolve(f.Artifacts[i].ManifestFile)
	}
}

// ExpandHome replaces a leading ~ path element with home. With no home the
// path is returned unchanged.
func ExpandHome(p, home string) string {
	if home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, "~"+string(filepath.Separator)) {
		return filepath.Join(home, p[2:])
	}
	return p
}

// Jobs converts the artifacts to rewrite jobs, in file order.
func (f *File) Jobs() []rewrite.Job {
	jobs := make([]rewrite.Job, 0, len(f.Artifacts))
	for _, a := range f.Artifacts {
		jobs = append(jobs, rewrite.Job{
			JarFile:      a.JarFile,
			Artifact:     a.Artifact,
			ManifestFile: a.ManifestFile,
			Mode:         rewrite.Mode(a.Mode),
			Publish:      a.PublishArtifact,
		})
	}
	return jobs
}

// DigestAlgorithms parses the configured digest names.
func (f *File) DigestAlgorithms() ([]crypto.Hash, error) {
	var algos []crypto.Hash
	for _, name := range f.Digests {
		algo, err := hashext.ParseAlgorithm(name)
		if err != nil {
			return nil, errors.Wrap(ErrInvalid, err.Error())
		}
		algos = append(algos, algo)
	}
	return algos, nil
}
