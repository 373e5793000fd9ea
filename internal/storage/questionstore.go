package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/FedericoDamboreana/ba-ai/pkg/models"
	"gopkg.in/yaml.v3"
)

// QuestionsFile represents the top-level structure of questions.yaml.
// Questions are stored as a list so insertion order survives round trips.
type QuestionsFile struct {
	Version   string             `yaml:"version"`
	Questions []*models.Question `yaml:"questions"`
}

// QuestionManager persists the per-item question set. It satisfies
// core.QuestionStore: order and question identity are preserved across loads.
type QuestionManager interface {
	LoadQuestions(itemID string) ([]*models.Question, error)
	SaveQuestions(itemID string, questions []*models.Question) error
}

type fileQuestionManager struct {
	basePath string
}

// NewQuestionManager creates a QuestionManager rooted at basePath. Question
// files live next to the owning item's item.yaml.
func NewQuestionManager(basePath string) QuestionManager {
	return &fileQuestionManager{basePath: basePath}
}

func (m *fileQuestionManager) questionsPath(itemID string) string {
	return filepath.Join(m.basePath, "items", itemID, "questions.yaml")
}

// LoadQuestions reads the question set for an item. A missing file yields an
// empty set: an item created before question generation completed simply has
// no questions yet.
func (m *fileQuestionManager) LoadQuestions(itemID string) ([]*models.Question, error) {
	data, err := os.ReadFile(m.questionsPath(itemID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading questions.yaml for %s: %w", itemID, err)
	}

	var qf QuestionsFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing questions.yaml for %s: %w", itemID, err)
	}
	return qf.Questions, nil
}

// SaveQuestions writes the full question set for an item, replacing the
// previous file.
func (m *fileQuestionManager) SaveQuestions(itemID string, questions []*models.Question) error {
	dir := filepath.Dir(m.questionsPath(itemID))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("saving questions for %s: creating directory: %w", itemID, err)
	}

	qf := QuestionsFile{Version: "1.0", Questions: questions}
	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("saving questions for %s: marshaling YAML: %w", itemID, err)
	}
	if err := os.WriteFile(m.questionsPath(itemID), data, 0o600); err != nil {
		return fmt.Errorf("saving questions for %s: writing file: %w", itemID, err)
	}
	return nil
}
