package quiz

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrEmptyDictionary = errors.New("dictionary has no questions")

type Question struct {
	Question string
	Answer   string
}

// LoadDictionary reads one "<question>;<answer>" pair per line. The first ';' separates question
// and answer, so answers may contain ';' but questions can not. Blank lines are skipped.
func LoadDictionary(fileName string) ([]Question, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("reading questions: %w", err)
	}
	defer f.Close()

	var questions []Question

	sc := bufio.NewScanner(f)
	for lineNum := 1; sc.Scan(); lineNum++ {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		sep := strings.IndexByte(line, ';')
		if sep < 0 {
			return nil, fmt.Errorf("reading questions: %s:%d: missing ';' between question and answer", fileName, lineNum)
		}

		questions = append(questions, Question{
			Question: line[:sep],
			Answer:   line[sep+1:],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading questions: %w", err)
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%s: %w", fileName, ErrEmptyDictionary)
	}

	return questions, nil
}
