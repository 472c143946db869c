package recipes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"craftwiz/internal/logging"
)

// Store holds recipes keyed by internal name, remembering insertion order so
// ranking ties resolve the same way on every run.
type Store struct {
	order []string
	byID  map[string]Recipe
}

func NewStore() *Store {
	return &Store{byID: make(map[string]Recipe)}
}

// Add inserts r. A recipe with the same internal name is replaced in place and
// Add reports true.
func (s *Store) Add(r Recipe) bool {
	if _, exists := s.byID[r.InternalName]; exists {
		s.byID[r.InternalName] = r
		return true
	}
	s.order = append(s.order, r.InternalName)
	s.byID[r.InternalName] = r
	return false
}

func (s *Store) Get(id string) (Recipe, bool) {
	if s == nil {
		return Recipe{}, false
	}
	r, ok := s.byID[id]
	return r, ok
}

func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// All returns the recipes in store order.
func (s *Store) All() []Recipe {
	if s == nil {
		return nil
	}
	out := make([]Recipe, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Record mirrors an item definition file. Only the fields the ranker uses are
// decoded; everything else in the file is ignored.
type Record struct {
	InternalName string                     `json:"internalname"`
	DisplayName  string                     `json:"displayname"`
	CraftText    string                     `json:"crafttext"`
	Recipe       map[string]json.RawMessage `json:"recipe"`
}

// ToRecipe validates the record. Grid cells must be strings; keys outside
// A1..C3 (such as "count") are ignored.
func (rec Record) ToRecipe() (Recipe, error) {
	id := strings.TrimSpace(rec.InternalName)
	if id == "" {
		return Recipe{}, ErrMissingInternalName
	}
	r := Recipe{
		InternalName: id,
		DisplayName:  rec.DisplayName,
		CraftText:    rec.CraftText,
	}
	if r.DisplayName == "" {
		r.DisplayName = id
	}
	for i, label := range SlotLabels {
		raw, ok := rec.Recipe[label]
		if !ok || len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var cell string
		if err := json.Unmarshal(raw, &cell); err != nil {
			return Recipe{}, fmt.Errorf("%w in %s: %s is not a string", ErrBadIngredient, label, raw)
		}
		ing, err := ParseIngredient(cell)
		if err != nil {
			return Recipe{}, fmt.Errorf("%s: %w", label, err)
		}
		r.Slots[i] = ing
	}
	return r, nil
}

// ParseRecord decodes and validates one definition file.
func ParseRecord(data []byte) (Recipe, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Recipe{}, err
	}
	return rec.ToRecipe()
}

// Skipped describes a record that could not be loaded.
type Skipped struct {
	Source string
	Err    error
}

// LoadReport summarises a load.
type LoadReport struct {
	Loaded   int
	Replaced int
	Skipped  []Skipped
}

// LoadFS reads every *.json file directly under dir in fsys, in lexical
// filename order. Unreadable or malformed files are skipped with a warning.
func LoadFS(fsys fs.FS, dir string) (*Store, LoadReport) {
	s := NewStore()
	var rep LoadReport

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		logging.Warn("Could not read items folder", zap.String("dir", dir), zap.Error(err))
		return s, rep
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			rep.skip(e.Name(), err)
			continue
		}
		r, err := ParseRecord(data)
		if err != nil {
			rep.skip(e.Name(), err)
			continue
		}
		rep.add(s, r, e.Name())
	}
	logging.Debugf("recipes: loaded %d, replaced %d, skipped %d", rep.Loaded, rep.Replaced, len(rep.Skipped))
	return s, rep
}

// LoadDir is LoadFS over an on-disk folder. A missing folder yields an empty
// store.
func LoadDir(dir string) (*Store, LoadReport) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		logging.Warn("Items folder does not exist", zap.String("dir", dir))
		return NewStore(), LoadReport{}
	}
	return LoadFS(os.DirFS(dir), ".")
}

func (rep *LoadReport) skip(source string, err error) {
	logging.Warn("Error loading recipe", zap.String("source", source), zap.Error(err))
	rep.Skipped = append(rep.Skipped, Skipped{Source: source, Err: err})
}

func (rep *LoadReport) add(s *Store, r Recipe, source string) {
	if s.Add(r) {
		rep.Replaced++
		logging.Warn("Duplicate internalname, replacing earlier recipe",
			zap.String("internalname", r.InternalName), zap.String("source", source))
		return
	}
	rep.Loaded++
}
