package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/mushaf-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionQuiz    = "quiz"
	actionSimilar = "similar"
	actionCompare = "compare"
	actionReset   = "reset"
)

// Quiz sub-actions.
const (
	quizStart  = "start"
	quizAnswer = "ans"
	quizNext   = "next"
	quizStop   = "stop"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// int64Param parses the i-th parameter.
func (cd callbackData) int64Param(i int) (int64, bool) {
	n, err := strconv.ParseInt(cd.param(i), 10, 64)
	return n, err == nil
}

// intParam parses the i-th parameter.
func (cd callbackData) intParam(i int) (int, bool) {
	n, err := strconv.Atoi(cd.param(i))
	return n, err == nil
}

// buildQuizStartCallback builds callback data for starting a quiz of one type.
func buildQuizStartCallback(qt entities.QuestionType, expert bool) string {
	params := []string{quizStart, string(qt)}
	if expert {
		params = append(params, "expert")
	}
	return callbackData{Action: actionQuiz, Params: params}.encode()
}

// buildQuizAnswerCallback builds callback data for picking an option.
func buildQuizAnswerCallback(sessionID int64, optionIndex int) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{
			quizAnswer,
			strconv.FormatInt(sessionID, 10),
			strconv.Itoa(optionIndex),
		},
	}.encode()
}

func buildQuizNextCallback(sessionID int64) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizNext, strconv.FormatInt(sessionID, 10)},
	}.encode()
}

func buildQuizStopCallback(sessionID int64) string {
	return callbackData{
		Action: actionQuiz,
		Params: []string{quizStop, strconv.FormatInt(sessionID, 10)},
	}.encode()
}

// buildSimilarCallback builds callback data for a page of similar verses.
func buildSimilarCallback(verseID int64, page int) string {
	return callbackData{
		Action: actionSimilar,
		Params: []string{strconv.FormatInt(verseID, 10), strconv.Itoa(page)},
	}.encode()
}

func buildCompareCallback(id1, id2 int64) string {
	return callbackData{
		Action: actionCompare,
		Params: []string{strconv.FormatInt(id1, 10), strconv.FormatInt(id2, 10)},
	}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
