// Package store lays out and persists the raw and derived artifacts of a
// fetch run under a single root directory. It replaces the legacy
// scripts' module-global, working-directory-relative paths with an
// explicit store handed to each stage.
//
// Layout under the root:
//
//	api_data/courses_term_<id>_<timestamp>.json   raw course-list captures
//	course_timetables/term_<id>_<code>/           per-term schedule artifacts
//	    batch_<n>_timetable.json                  raw batch responses
//	    <courseCode>_timetable.json               per-course duplicates
//	course_summary.json                           summary artifact
//	runs/run_<timestamp>.json                     run manifests
//
// Every write is a whole-file overwrite staged through a temp file and
// rename, so readers never observe a partially written artifact.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/daniel/timetable-agent/internal/types"
)

const (
	apiDataDirName    = "api_data"
	timetablesDirName = "course_timetables"
	runsDirName       = "runs"
	summaryFileName   = "course_summary.json"

	// captureTimeFormat is fixed-width and zero-padded, so lexicographic
	// order of capture file names equals chronological order.
	captureTimeFormat = "20060102_150405"
)

// ErrNoCapture is returned when no course-list capture exists for a term.
var ErrNoCapture = errors.New("no course capture found")

// Store persists artifacts under a root directory.
type Store struct {
	root string
}

// New returns a store rooted at dir. Directories are created lazily on
// first write.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// APIDataDir returns the directory holding raw course-list captures.
func (s *Store) APIDataDir() string { return filepath.Join(s.root, apiDataDirName) }

// TimetablesDir returns the directory holding per-term schedule artifacts.
func (s *Store) TimetablesDir() string { return filepath.Join(s.root, timetablesDirName) }

// SummaryPath returns the path of the summary artifact.
func (s *Store) SummaryPath() string { return filepath.Join(s.root, summaryFileName) }

// TermDir returns the artifact directory for one term.
func (s *Store) TermDir(t types.Term) string {
	return filepath.Join(s.TimetablesDir(), fmt.Sprintf("term_%d_%s", t.ID, t.Code))
}

// EnsureTermDir creates the term's artifact directory if absent.
func (s *Store) EnsureTermDir(t types.Term) (string, error) {
	dir := s.TermDir(t)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create term directory %s: %w", dir, err)
	}
	return dir, nil
}

// SaveCourseCapture persists a raw course-list response for a term under
// a timestamped name and returns the written path.
func (s *Store) SaveCourseCapture(termID int, raw []byte, now time.Time) (string, error) {
	if err := os.MkdirAll(s.APIDataDir(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create api data directory: %w", err)
	}

	name := fmt.Sprintf("courses_term_%d_%s.json", termID, now.Format(captureTimeFormat))
	path := filepath.Join(s.APIDataDir(), name)
	if err := writeFileAtomic(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

// LatestCourseCapture returns the raw bytes and path of the most recent
// course-list capture for a term. "Most recent" is the
// lexicographic-maximum file name among the term's captures, which the
// fixed-width timestamp suffix makes chronological. Returns ErrNoCapture
// when the term has no capture.
func (s *Store) LatestCourseCapture(termID int) ([]byte, string, error) {
	entries, err := os.ReadDir(s.APIDataDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrNoCapture
		}
		return nil, "", fmt.Errorf("failed to read api data directory: %w", err)
	}

	prefix := fmt.Sprintf("courses_term_%d_", termID)
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, "", ErrNoCapture
	}
	sort.Strings(names)

	path := filepath.Join(s.APIDataDir(), names[len(names)-1])
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read course capture %s: %w", path, err)
	}
	return raw, path, nil
}

// SaveBatch persists a raw batch schedule response for a term. Batch
// numbers start at 1.
func (s *Store) SaveBatch(t types.Term, batchNum int, raw []byte) (string, error) {
	path := filepath.Join(s.TermDir(t), fmt.Sprintf("batch_%d_timetable.json", batchNum))
	if err := writeFileAtomic(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

// SaveCourseCopy persists the whole batch payload again under a
// course-specific name. The content is deliberately not filtered per
// course: downstream tooling depends on the per-course file existing even
// though it carries the full batch.
func (s *Store) SaveCourseCopy(t types.Term, courseCode string, raw []byte) (string, error) {
	path := filepath.Join(s.TermDir(t), fmt.Sprintf("%s_timetable.json", courseCode))
	if err := writeFileAtomic(path, raw); err != nil {
		return "", err
	}
	return path, nil
}

// BatchFiles returns every persisted batch file across all term
// directories, sorted by path.
func (s *Store) BatchFiles() ([]string, error) {
	termDirs, err := s.termDirEntries()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, dir := range termDirs {
		matches, err := filepath.Glob(filepath.Join(dir, "batch_*_timetable.json"))
		if err != nil {
			return nil, fmt.Errorf("failed to list batch files in %s: %w", dir, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// CourseFiles returns the per-course duplicate files for one course code
// across all term directories.
func (s *Store) CourseFiles(courseCode string) ([]string, error) {
	termDirs, err := s.termDirEntries()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, dir := range termDirs {
		path := filepath.Join(dir, fmt.Sprintf("%s_timetable.json", courseCode))
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Terms reconstructs the term list from term directory names. The
// directory name only carries id and code, so the name is approximated
// from the code; offline summary rebuilds rely on this.
func (s *Store) Terms() ([]types.Term, error) {
	termDirs, err := s.termDirEntries()
	if err != nil {
		return nil, err
	}

	var found []types.Term
	for _, dir := range termDirs {
		parts := strings.SplitN(filepath.Base(dir), "_", 3)
		if len(parts) < 3 {
			continue
		}
		id, err := strconv.Atoi(parts[1])
		if err != nil {
			continue
		}
		code := parts[2]
		found = append(found, types.Term{
			ID:   id,
			Name: strings.ToUpper(strings.ReplaceAll(code, "_", " ")),
			Code: code,
		})
	}
	return found, nil
}

func (s *Store) termDirEntries() ([]string, error) {
	entries, err := os.ReadDir(s.TimetablesDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read timetables directory: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "term_") {
			dirs = append(dirs, filepath.Join(s.TimetablesDir(), e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// WriteSummary overwrites the summary artifact.
func (s *Store) WriteSummary(summary *types.SummaryArtifact) (string, error) {
	data, err := json.MarshalIndent(summary, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}
	if err := writeFileAtomic(s.SummaryPath(), data); err != nil {
		return "", err
	}
	return s.SummaryPath(), nil
}

// LoadSummary reads the summary artifact.
func (s *Store) LoadSummary() (*types.SummaryArtifact, error) {
	data, err := os.ReadFile(s.SummaryPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read summary %s: %w", s.SummaryPath(), err)
	}

	var summary types.SummaryArtifact
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("failed to parse summary %s: %w", s.SummaryPath(), err)
	}
	return &summary, nil
}

// WriteRunManifest persists a run manifest under a timestamped name.
func (s *Store) WriteRunManifest(manifest any, now time.Time) (string, error) {
	dir := filepath.Join(s.root, runsDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create runs directory: %w", err)
	}

	data, err := json.MarshalIndent(manifest, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run manifest: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("run_%s.json", now.Format(captureTimeFormat)))
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// writeFileAtomic stages data in a temp file in the target directory and
// renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}
