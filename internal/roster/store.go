package roster

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrDuplicateID      = errors.New("student id already exists")
	ErrPresenceMismatch = errors.New("presence count does not match roster size")
	ErrSaveAfterAdd     = errors.New("student added but roster file not saved")
	ErrNotLoaded        = errors.New("roster file failed to load; refusing to overwrite it")
)

// Store is the ordered, file-backed roster. It is not safe for concurrent use.
type Store struct {
	path     string
	students []Student
	// set when the last Load hit a read error; Save must not clobber the file
	loadErr error
}

func NewStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("roster file path is required")
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Len() int {
	return len(s.students)
}

func (s *Store) Get(id string) (Student, bool) {
	for _, st := range s.students {
		if st.ID == id {
			return st, true
		}
	}
	return Student{}, false
}

// Add appends a new absent student and rewrites the backing file. A failed
// save leaves the student in memory and returns an error wrapping
// ErrSaveAfterAdd.
func (s *Store) Add(id, name string) (Student, error) {
	if _, exists := s.Get(id); exists {
		return Student{}, ErrDuplicateID
	}

	st := Student{ID: id, Name: name}
	s.students = append(s.students, st)
	if err := s.Save(); err != nil {
		return st, fmt.Errorf("%w: %w", ErrSaveAfterAdd, err)
	}
	return st, nil
}

// TakeAttendance applies one presence value per student, in roster order.
func (s *Store) TakeAttendance(presence []bool) (Summary, error) {
	if len(presence) != len(s.students) {
		return Summary{}, fmt.Errorf("%w: got %d, roster has %d", ErrPresenceMismatch, len(presence), len(s.students))
	}

	var sum Summary
	for i := range s.students {
		s.students[i].Present = presence[i]
		if presence[i] {
			sum.Present++
		} else {
			sum.Absent++
		}
	}
	return sum, nil
}

func (s *Store) All() iter.Seq[Student] {
	return func(yield func(Student) bool) {
		for _, st := range s.students {
			if !yield(st) {
				return
			}
		}
	}
}

func (s *Store) PresentCount() int {
	n := 0
	for _, st := range s.students {
		if st.Present {
			n++
		}
	}
	return n
}

// Save rewrites the backing file. It fails with ErrNotLoaded while the last
// Load ended in a read error, so records that could not be read stay on disk.
func (s *Store) Save() error {
	if s.loadErr != nil {
		return fmt.Errorf("%w: %w", ErrNotLoaded, s.loadErr)
	}

	var b strings.Builder
	for _, st := range s.students {
		b.WriteString(encodeLine(st))
		b.WriteByte('\n')
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir roster dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write roster file: %w", err)
	}
	return nil
}

// Load replaces the in-memory roster with the backing file's contents.
// A missing file yields an empty roster and found=false. Lines without
// exactly three fields are skipped. Lines have no length limit.
func (s *Store) Load() (found bool, err error) {
	s.students = nil
	s.loadErr = nil

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		s.loadErr = err
		return false, fmt.Errorf("open roster file: %w", err)
	}
	defer f.Close()

	var loaded []Student
	seen := make(map[string]struct{})
	r := bufio.NewReader(f)
	for {
		line, rerr := r.ReadString('\n')
		if line != "" {
			if st, ok := decodeLine(strings.TrimSuffix(line, "\n")); ok {
				// first occurrence of an id wins
				if _, dup := seen[st.ID]; !dup {
					seen[st.ID] = struct{}{}
					loaded = append(loaded, st)
				}
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			s.loadErr = rerr
			s.students = loaded
			return true, fmt.Errorf("read roster file: %w", rerr)
		}
	}

	s.students = loaded
	return true, nil
}
