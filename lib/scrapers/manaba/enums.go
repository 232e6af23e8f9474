package manaba

import "strings"

// The enumerations below mirror the closed sets of display strings manaba
// renders. Every resolver returns nil for empty input — absence of a value
// is different from an unrecognized one. Resolvers whose enumeration has
// an Unknown member return that for unrecognized input; the rest return
// nil and leave rejection to the caller.

var taskStatusLabels = []struct {
	flag  TaskStatusFlag
	label string
}{
	{TaskWaiting, "受付開始待ち"},
	{TaskOpening, "受付中"},
	{TaskClosed, "受付終了"},
}

func (f TaskStatusFlag) String() string {
	switch f {
	case TaskWaiting:
		return "WAITING"
	case TaskOpening:
		return "OPENING"
	case TaskClosed:
		return "CLOSED"
	}
	return "INVALID"
}

// ParseTaskStatusFlag resolves the first line of a status block. Exact
// match only; unrecognized labels yield nil so the status grammar can
// fail loudly.
func ParseTaskStatusFlag(s string) *TaskStatusFlag {
	if s == "" {
		return nil
	}
	for _, e := range taskStatusLabels {
		if e.label == s {
			flag := e.flag
			return &flag
		}
	}
	return nil
}

// UNSUBMITTED owns two synonymous labels: the short one used on list
// pages and the longer explanatory one some detail pages render. Matching
// is exact first, then prefix, in the order given.
var yourStatusLabels = []struct {
	flag   YourStatusFlag
	labels []string
}{
	{YourUnsubmitted, []string{"未提出", "まだ提出していません"}},
	{YourSubmitted, []string{"提出済み"}},
}

func (f YourStatusFlag) String() string {
	switch f {
	case YourWaiting:
		return "WAITING"
	case YourUnsubmitted:
		return "UNSUBMITTED"
	case YourSubmitted:
		return "SUBMITTED"
	}
	return "INVALID"
}

func ParseYourStatusFlag(s string) *YourStatusFlag {
	if s == "" {
		return nil
	}
	for _, e := range yourStatusLabels {
		for _, label := range e.labels {
			if s == label {
				flag := e.flag
				return &flag
			}
		}
	}
	for _, e := range yourStatusLabels {
		for _, label := range e.labels {
			if strings.HasPrefix(s, label) {
				flag := e.flag
				return &flag
			}
		}
	}
	return nil
}

// PortfolioType is whether a task's result is saved to the student's
// long-term portfolio.
type PortfolioType int

const (
	PortfolioAdd PortfolioType = iota
	PortfolioNotAdd
	PortfolioUnknown
)

var portfolioLabels = []struct {
	typ   PortfolioType
	label string
}{
	// the negative label first: "追加" is a substring of "追加しない"
	{PortfolioNotAdd, "ポートフォリオに追加しない"},
	{PortfolioAdd, "ポートフォリオに追加"},
}

func (t PortfolioType) String() string {
	switch t {
	case PortfolioAdd:
		return "ADD"
	case PortfolioNotAdd:
		return "NOT_ADD"
	}
	return "UNKNOWN"
}

// ParsePortfolioType matches exactly or by containment, since the input
// cell may concatenate several policy phrases.
func ParsePortfolioType(s string) *PortfolioType {
	if s == "" {
		return nil
	}
	for _, e := range portfolioLabels {
		if s == e.label || strings.Contains(s, e.label) {
			typ := e.typ
			return &typ
		}
	}
	unknown := PortfolioUnknown
	return &unknown
}

// ResultViewType is the quiz "publish results and answers" policy, also
// used as the report view-settings policy.
type ResultViewType int

const (
	ResultViewAtEnd ResultViewType = iota
	ResultViewAtSubmit
	ResultViewYouAndTeacher
	ResultViewSubmittedAndTeacher
	ResultViewAllMembers
	ResultViewCollectOnly
	ResultViewUnknown
)

var resultViewLabels = []struct {
	typ   ResultViewType
	label string
}{
	{ResultViewAtEnd, "受付終了時に採点結果と正解を公開"},
	{ResultViewAtSubmit, "提出時に採点結果と正解を公開"},
	{ResultViewYouAndTeacher, "提出者本人と教員のみ閲覧・コメント可（個別指導）"},
	{ResultViewSubmittedAndTeacher, "同じ課題の提出者と教員が閲覧・コメント可"},
	{ResultViewAllMembers, "コースメンバー全員が閲覧・コメント可"},
	{ResultViewCollectOnly, "回収のみ行なう"},
}

func (t ResultViewType) String() string {
	switch t {
	case ResultViewAtEnd:
		return "ENDED_RESULT_VIEWABLE"
	case ResultViewAtSubmit:
		return "SUBMIT_RESULT_VIEWABLE"
	case ResultViewYouAndTeacher:
		return "YOU_AND_TEACHER_VIEWABLE"
	case ResultViewSubmittedAndTeacher:
		return "SUBMITTED_MEMBER_AND_TEACHER_VIEWABLE"
	case ResultViewAllMembers:
		return "ALL_MEMBER_VIEWABLE"
	case ResultViewCollectOnly:
		return "COLLECT_ONLY"
	}
	return "UNKNOWN"
}

func ParseResultViewType(s string) *ResultViewType {
	if s == "" {
		return nil
	}
	for _, e := range resultViewLabels {
		if s == e.label || strings.Contains(s, e.label) {
			typ := e.typ
			return &typ
		}
	}
	unknown := ResultViewUnknown
	return &unknown
}

// StudentResubmitType is the survey/report "allow re-submission" policy.
type StudentResubmitType int

const (
	Resubmittable StudentResubmitType = iota
	Unresubmittable
	ResubmitUnknown
)

var resubmitLabels = []struct {
	typ   StudentResubmitType
	label string
}{
	{Unresubmittable, "再提出を許可しない"},
	{Resubmittable, "再提出を許可する"},
}

func (t StudentResubmitType) String() string {
	switch t {
	case Resubmittable:
		return "RESUBMITABLE"
	case Unresubmittable:
		return "UNRESUBMITABLE"
	}
	return "UNKNOWN"
}

func ParseStudentResubmitType(s string) *StudentResubmitType {
	if s == "" {
		return nil
	}
	for _, e := range resubmitLabels {
		if s == e.label {
			typ := e.typ
			return &typ
		}
	}
	unknown := ResubmitUnknown
	return &unknown
}

// AnswerViewType is the drill "publish correct answers" policy.
type AnswerViewType int

const (
	AnswerPublishAtSubmit AnswerViewType = iota
	AnswerUnpublished
	AnswerViewUnknown
)

var answerViewLabels = []struct {
	typ   AnswerViewType
	label string
}{
	{AnswerPublishAtSubmit, "提出時に公開する"},
	{AnswerUnpublished, "公開しない"},
}

func (t AnswerViewType) String() string {
	switch t {
	case AnswerPublishAtSubmit:
		return "PUBLISH_AT_SUBMIT"
	case AnswerUnpublished:
		return "UNPUBLISH"
	}
	return "UNKNOWN"
}

func ParseAnswerViewType(s string) *AnswerViewType {
	if s == "" {
		return nil
	}
	for _, e := range answerViewLabels {
		if s == e.label {
			typ := e.typ
			return &typ
		}
	}
	unknown := AnswerViewUnknown
	return &unknown
}
