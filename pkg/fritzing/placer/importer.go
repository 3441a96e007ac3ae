package placer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fritzlab/fritz3d/pkg/fritzing/archive"
	"github.com/fritzlab/fritz3d/pkg/fritzing/fzp"
	"github.com/fritzlab/fritz3d/pkg/fritzing/scene"
)

// Extensions recognized for host-side geometry import.
var (
	modelExtensions  = []string{".obj", ".stl"}
	vectorExtensions = []string{".svg"}
)

// Result is the end-of-operation summary for one import.
type Result struct {
	Title           string // Part title from the descriptor, if any
	Descriptors     int    // Descriptors parsed successfully
	ObjectsImported int    // Base geometry objects created by the host
	InstancesPlaced int    // Placement instances produced
	PinsCreated     int    // Pin markers spawned
}

// Importer runs one complete import operation: archive resolution, host-side
// geometry import, descriptor parsing, placement, and post-processing. One
// import runs to completion on the calling goroutine.
type Importer struct {
	host   scene.Host
	opts   Options
	log    *zap.Logger
	engine *Engine
}

// NewImporter creates an importer. A nil logger is replaced with a nop
// logger.
func NewImporter(host scene.Host, opts Options, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{
		host:   host,
		opts:   opts,
		log:    log,
		engine: NewEngine(host, opts, log),
	}
}

// Import dispatches on the file extension: .fzpz archives, bare .fzp
// descriptors, and standalone .svg drawings. Only archive validity and file
// existence are fatal; everything else degrades per item.
func (im *Importer) Import(path string) (*Result, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".fzpz":
		return im.importArchive(path)
	case ".fzp":
		return im.importDescriptor(path)
	case ".svg":
		return im.importVector(path)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

// importArchive handles a .fzpz bundle: extract model and vector payloads to
// scratch files, import them through the host, then parse every descriptor
// inside the archive directly from memory and place its modules.
func (im *Importer) importArchive(path string) (*Result, error) {
	resolver, err := archive.Open(path)
	if err != nil {
		return nil, err
	}
	defer resolver.Close()

	result := &Result{}

	extractedModels, err := resolver.ExtractByExtensions(modelExtensions)
	if err != nil {
		return nil, err
	}
	extractedVectors, err := resolver.ExtractByExtensions(vectorExtensions)
	if err != nil {
		return nil, err
	}

	models := make(GeometryMap)
	for _, entry := range sortedKeys(extractedModels) {
		objs, err := im.host.ImportModel(extractedModels[entry])
		if err != nil {
			im.log.Warn("model import failed", zap.String("entry", entry), zap.Error(err))
			continue
		}
		models.Add(entry, objs)
		result.ObjectsImported += len(objs)
	}

	svgs := make(GeometryMap)
	for _, entry := range sortedKeys(extractedVectors) {
		objs, err := im.host.ImportVector(extractedVectors[entry])
		if err != nil {
			im.log.Warn("vector import failed", zap.String("entry", entry), zap.Error(err))
			continue
		}
		objs = im.engine.Normalize(objs)
		svgs.Add(entry, objs)
		result.ObjectsImported += len(objs)
	}

	entries, err := resolver.ListEntries()
	if err != nil {
		return nil, err
	}

	var placed []PlacedInstance
	for _, entry := range entries {
		if !strings.HasSuffix(strings.ToLower(entry), ".fzp") {
			continue
		}

		data, err := resolver.ReadEntry(entry)
		if err != nil {
			im.log.Warn("failed to read descriptor", zap.String("entry", entry), zap.Error(err))
			continue
		}

		doc, err := fzp.Parse(bytes.NewReader(data))
		if err != nil {
			im.log.Warn("skipping malformed descriptor", zap.String("entry", entry), zap.Error(err))
			continue
		}

		result.Descriptors++
		result.Title = doc.Title(entry)

		if im.opts.UsePlacement {
			placed = append(placed, im.engine.Place(doc, models, svgs)...)
		}
	}

	im.finish(result, placed)
	return result, nil
}

// importDescriptor handles a bare .fzp file. Referenced payloads resolve
// relative to the descriptor's own directory; references to files that do
// not exist are skipped silently.
func (im *Importer) importDescriptor(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("descriptor file not found: %w", err)
	}

	result := &Result{}

	doc, err := fzp.Parse(bytes.NewReader(data))
	if err != nil {
		im.log.Warn("skipping malformed descriptor", zap.String("path", path), zap.Error(err))
		return result, nil
	}

	result.Descriptors = 1
	result.Title = doc.Title(path)

	baseDir := filepath.Dir(path)
	models := make(GeometryMap)
	svgs := make(GeometryMap)
	imported := make(map[string]bool)

	for _, mod := range doc.Modules() {
		if mod.FileRef == "" {
			continue
		}
		key := BasenameKey(mod.FileRef)
		if imported[key] {
			continue
		}

		target := filepath.Join(baseDir, filepath.FromSlash(mod.FileRef))
		if _, err := os.Stat(target); err != nil {
			continue
		}
		imported[key] = true

		switch strings.ToLower(filepath.Ext(target)) {
		case ".obj", ".stl":
			objs, err := im.host.ImportModel(target)
			if err != nil {
				im.log.Warn("model import failed", zap.String("path", target), zap.Error(err))
				continue
			}
			models.Add(mod.FileRef, objs)
			result.ObjectsImported += len(objs)
		case ".svg":
			objs, err := im.host.ImportVector(target)
			if err != nil {
				im.log.Warn("vector import failed", zap.String("path", target), zap.Error(err))
				continue
			}
			objs = im.engine.Normalize(objs)
			svgs.Add(mod.FileRef, objs)
			result.ObjectsImported += len(objs)
		}
	}

	var placed []PlacedInstance
	if im.opts.UsePlacement {
		placed = im.engine.Place(doc, models, svgs)
	}

	im.finish(result, placed)
	return result, nil
}

// importVector handles a standalone drawing: a single vector import with
// optional mesh conversion and thickening, no placement metadata.
func (im *Importer) importVector(path string) (*Result, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %w", err)
	}

	objs, err := im.host.ImportVector(path)
	if err != nil {
		return nil, fmt.Errorf("vector import failed: %w", err)
	}
	objs = im.engine.Normalize(objs)

	return &Result{
		Title:           filepath.Base(path),
		ObjectsImported: len(objs),
	}, nil
}

// finish tallies the placement results and runs the overlap-avoidance pass.
func (im *Importer) finish(result *Result, placed []PlacedInstance) {
	result.InstancesPlaced = len(placed)
	for _, inst := range placed {
		result.PinsCreated += len(inst.PinLocations)
	}

	if im.opts.PerformBooleanCut {
		im.engine.BooleanCut(placed)
	}

	im.log.Info("import complete",
		zap.String("title", result.Title),
		zap.Int("descriptors", result.Descriptors),
		zap.Int("objects", result.ObjectsImported),
		zap.Int("instances", result.InstancesPlaced),
		zap.Int("pins", result.PinsCreated))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
