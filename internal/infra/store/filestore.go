package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
	"reactor.de/certprofile/internal/domain"
)

// FileStore implements the domain.FormStore interface using the local filesystem.
type FileStore struct {
	storePath string
	formsPath string
}

const formFileExt = ".yaml"

var formIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// NewFileStore creates a new filesystem-based store.
func NewFileStore(storePath string) *FileStore {
	return &FileStore{
		storePath: storePath,
		formsPath: filepath.Join(storePath, "forms"),
	}
}

// GetFormPath returns the path of the file holding form id.
func (s *FileStore) GetFormPath(id string) string {
	return filepath.Join(s.formsPath, id+formFileExt)
}

func validateFormID(id string) error {
	if !formIDPattern.MatchString(id) {
		return fmt.Errorf("%w: invalid form id %q", domain.ErrValidation, id)
	}
	return nil
}

// FormExists checks if a form file exists.
func (s *FileStore) FormExists(id string) (bool, error) {
	if err := validateFormID(id); err != nil {
		return false, err
	}
	info, err := os.Stat(s.GetFormPath(id))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// LoadForm loads a form from the store.
func (s *FileStore) LoadForm(id string) (domain.FormState, error) {
	if err := validateFormID(id); err != nil {
		return domain.FormState{}, err
	}
	data, err := os.ReadFile(s.GetFormPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.FormState{}, fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
		}
		return domain.FormState{}, err
	}

	state := domain.NewFormState()
	if err := yaml.Unmarshal(data, &state); err != nil {
		return domain.FormState{}, fmt.Errorf("failed to decode form %s: %w", id, err)
	}
	if state.Subject == nil {
		state.Subject = make(map[domain.SubjectKey]string)
	}
	if state.Extensions == nil {
		state.Extensions = make(map[domain.ExtensionName]domain.ExtensionField)
	}
	return state, nil
}

// SaveForm writes the form with the next revision number and returns it.
// It uses an atomic write-and-rename operation, so readers only ever see a
// complete form and the last writer wins.
func (s *FileStore) SaveForm(id string, state domain.FormState) (rev int, err error) {
	if err := validateFormID(id); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(s.formsPath, 0755); err != nil {
		return 0, fmt.Errorf("failed to create forms directory: %w", err)
	}

	state.Revision++
	data, err := yaml.Marshal(state)
	if err != nil {
		return 0, fmt.Errorf("failed to encode form %s: %w", id, err)
	}

	path := s.GetFormPath(id)
	// Create a temporary file in the same directory to ensure atomic rename.
	tmpFile, err := os.CreateTemp(s.formsPath, filepath.Base(path)+".tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temporary form file: %w", err)
	}
	// Ensure the temp file is removed on error
	defer func() {
		if err != nil {
			os.Remove(tmpFile.Name())
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close() // Close file before trying to remove.
		return 0, fmt.Errorf("failed to write to temporary form file: %w", err)
	}

	if err = tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("failed to close temporary form file: %w", err)
	}

	// Atomically replace the old file with the new one.
	if err = os.Rename(tmpFile.Name(), path); err != nil {
		return 0, fmt.Errorf("failed to rename temporary form file to final destination: %w", err)
	}

	return state.Revision, nil
}

// ListFormIDs returns all form IDs in the store, sorted.
func (s *FileStore) ListFormIDs() ([]string, error) {
	entries, err := os.ReadDir(s.formsPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.Type().IsRegular() && strings.HasSuffix(name, formFileExt) {
			ids = append(ids, strings.TrimSuffix(name, formFileExt))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteForm removes a form from the store.
func (s *FileStore) DeleteForm(id string) error {
	if err := validateFormID(id); err != nil {
		return err
	}
	err := os.Remove(s.GetFormPath(id))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", domain.ErrFormNotFound, id)
	}
	return err
}
