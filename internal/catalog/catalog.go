package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Level is a UK qualification level.
type Level string

const (
	LevelGCSE   Level = "gcse"
	LevelALevel Level = "a-level"
)

// AllLevels returns the levels in display order.
func AllLevels() []Level { return []Level{LevelGCSE, LevelALevel} }

func (l Level) DisplayName() string {
	switch l {
	case LevelGCSE:
		return "GCSE"
	case LevelALevel:
		return "A-Level"
	default:
		return string(l)
	}
}

// Board is an exam board. It determines the question style the prompts ask for.
type Board string

const (
	BoardAQA     Board = "aqa"
	BoardEdexcel Board = "edexcel"
	BoardOCR     Board = "ocr"
)

func AllBoards() []Board { return []Board{BoardAQA, BoardEdexcel, BoardOCR} }

func (b Board) DisplayName() string {
	switch b {
	case BoardAQA:
		return "AQA"
	case BoardEdexcel:
		return "Edexcel"
	case BoardOCR:
		return "OCR"
	default:
		return string(b)
	}
}

// Difficulty is the requested question difficulty.
type Difficulty string

const (
	DifficultyFoundation   Difficulty = "foundation"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyHigher       Difficulty = "higher"
)

func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyFoundation, DifficultyIntermediate, DifficultyHigher}
}

func (d Difficulty) DisplayName() string {
	switch d {
	case DifficultyFoundation:
		return "Foundation"
	case DifficultyIntermediate:
		return "Intermediate"
	case DifficultyHigher:
		return "Higher"
	default:
		return string(d)
	}
}

// Subject is a qualification subject.
type Subject struct {
	ID     string
	Name   string
	Levels []Level
}

// Topic is a syllabus topic. ID is the slug of Name.
type Topic struct {
	ID        string
	Name      string
	SubjectID string
	Levels    []Level
}

// OfferedAt reports whether the topic is examined at level l.
func (t Topic) OfferedAt(l Level) bool { return slices.Contains(t.Levels, l) }

// Criteria identifies a bucket of interchangeable questions.
type Criteria struct {
	Subject    string     `json:"subject" validate:"required"`
	Board      Board      `json:"board" validate:"required"`
	Level      Level      `json:"level" validate:"required"`
	Topic      string     `json:"topic" validate:"required"`
	Difficulty Difficulty `json:"difficulty" validate:"required"`
}

func (c Criteria) String() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", c.Subject, c.Board, c.Level, c.Topic, c.Difficulty)
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gcse":
		return LevelGCSE, nil
	case "a-level", "alevel", "a level":
		return LevelALevel, nil
	}
	return "", fmt.Errorf("unknown level %q: must be gcse or a-level", s)
}

func ParseBoard(s string) (Board, error) {
	b := Board(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllBoards(), b) {
		return "", fmt.Errorf("unknown exam board %q: must be aqa, edexcel or ocr", s)
	}
	return b, nil
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(AllDifficulties(), d) {
		return "", fmt.Errorf("unknown difficulty %q: must be foundation, intermediate or higher", s)
	}
	return d, nil
}

// AllSubjects returns every subject in display order.
func AllSubjects() []Subject { return slices.Clone(subjects) }

// SubjectByID returns the subject with the given ID.
func SubjectByID(id string) (Subject, bool) {
	for _, s := range subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// TopicsFor returns the topics of a subject examined at level. An empty
// level returns every topic of the subject.
func TopicsFor(subjectID string, level Level) []Topic {
	var out []Topic
	for _, t := range topics {
		if t.SubjectID != subjectID {
			continue
		}
		if level == "" || t.OfferedAt(level) {
			out = append(out, t)
		}
	}
	return out
}

// TopicBySlug resolves a topic from its URL slug. Slugs produced by older
// links (different spacing or case) are normalized first.
func TopicBySlug(subjectID, slug string) (Topic, bool) {
	slug = Slugify(slug)
	for _, t := range topics {
		if t.SubjectID == subjectID && t.ID == slug {
			return t, true
		}
	}
	return Topic{}, false
}

// Validate checks that every field of c names a catalogue entry and that
// the topic is examined at the requested level.
func Validate(c Criteria) error {
	subj, ok := SubjectByID(c.Subject)
	if !ok {
		return fmt.Errorf("unknown subject %q", c.Subject)
	}
	if _, err := ParseBoard(string(c.Board)); err != nil {
		return err
	}
	if _, err := ParseDifficulty(string(c.Difficulty)); err != nil {
		return err
	}
	if !slices.Contains(subj.Levels, c.Level) {
		return fmt.Errorf("%s is not offered at level %q", subj.Name, c.Level)
	}
	t, ok := TopicBySlug(c.Subject, c.Topic)
	if !ok {
		return fmt.Errorf("unknown topic %q for %s", c.Topic, subj.Name)
	}
	if !t.OfferedAt(c.Level) {
		return fmt.Errorf("topic %q is not examined at %s", t.Name, c.Level.DisplayName())
	}
	return nil
}

// Combinations enumerates every valid criteria bucket, optionally
// restricted by subject, level and board. Empty filters match everything.
func Combinations(subjectID string, level Level, board Board) []Criteria {
	var out []Criteria
	for _, s := range subjects {
		if subjectID != "" && s.ID != subjectID {
			continue
		}
		for _, l := range s.Levels {
			if level != "" && l != level {
				continue
			}
			for _, t := range TopicsFor(s.ID, l) {
				for _, b := range AllBoards() {
					if board != "" && b != board {
						continue
					}
					for _, d := range AllDifficulties() {
						out = append(out, Criteria{Subject: s.ID, Board: b, Level: l, Topic: t.ID, Difficulty: d})
					}
				}
			}
		}
	}
	return out
}

// Normalize returns c in canonical form (lower-case identifiers, level
// aliases resolved, topic as its slug) after validating it.
func Normalize(c Criteria) (Criteria, error) {
	out := Criteria{
		Subject:    strings.ToLower(strings.TrimSpace(c.Subject)),
		Board:      Board(strings.ToLower(strings.TrimSpace(string(c.Board)))),
		Difficulty: Difficulty(strings.ToLower(strings.TrimSpace(string(c.Difficulty)))),
		Topic:      Slugify(c.Topic),
	}
	lvl, err := ParseLevel(string(c.Level))
	if err != nil {
		return Criteria{}, err
	}
	out.Level = lvl
	if err := Validate(out); err != nil {
		return Criteria{}, err
	}
	return out, nil
}
