package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// MetadataFile is the name of the per-group metadata file read by the site
// renderer to label and order sidebar categories.
const MetadataFile = "_category_.json"

// Metadata is the content of a group's [MetadataFile].
type Metadata struct {
	Label    string `json:"label"`
	Position int    `json:"position"`
}

// Write materializes g below baseDir on fsys with position 0.
// See [WriteAt].
func Write(fsys billy.Filesystem, baseDir string, g *Group) error {
	return WriteAt(fsys, baseDir, g, 0)
}

// WriteAt materializes g as the directory baseDir/g.Name, recording position
// in its metadata file. The directory is removed first if it exists, so after
// WriteAt returns its contents exactly mirror g. Filesystem errors are
// returned as they happen; nothing is rolled back.
func WriteAt(fsys billy.Filesystem, baseDir string, g *Group, position int) error {
	dir := fsys.Join(baseDir, g.Name)
	if err := reset(fsys, dir); err != nil {
		return err
	}

	meta, err := encodeMetadata(Metadata{Label: g.Label, Position: position})
	if err != nil {
		return fmt.Errorf("encode metadata for %s: %w", dir, err)
	}
	metaPath := fsys.Join(dir, MetadataFile)
	if err := util.WriteFile(fsys, metaPath, meta, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", metaPath, err)
	}

	for i, child := range g.Children {
		switch c := child.(type) {
		case *Group:
			if err := WriteAt(fsys, dir, c, i); err != nil {
				return err
			}
		case *Page:
			path := fsys.Join(dir, c.Name)
			if err := util.WriteFile(fsys, path, []byte(c.Content), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		default:
			panic(fmt.Sprintf("model: unexpected node type %T", child))
		}
	}
	return nil
}

// reset removes dir and everything below it, then recreates it empty.
func reset(fsys billy.Filesystem, dir string) error {
	_, err := fsys.Stat(dir)
	switch {
	case err == nil:
		if err := util.RemoveAll(fsys, dir); err != nil {
			return fmt.Errorf("reset %s: %w", dir, err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("stat %s: %w", dir, err)
	}

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

func encodeMetadata(m Metadata) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadMetadata reads the metadata file of the group directory dir.
func ReadMetadata(fsys billy.Filesystem, dir string) (Metadata, error) {
	var m Metadata
	data, err := util.ReadFile(fsys, fsys.Join(dir, MetadataFile))
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode %s: %w", fsys.Join(dir, MetadataFile), err)
	}
	return m, nil
}
