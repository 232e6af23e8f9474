package manaba

import "time"

// CourseLamps is the row of five status icons on a course card. A lamp is
// lit when its icon filename ends in "on.png".
type CourseLamps struct {
	News       bool
	Deadline   bool
	Grade      bool
	Thread     bool
	Individual bool
}

// Course is one entry of the course list, or the header of a course page.
// Year, LectureAt and Teacher are absent in some of the three list
// layouts; Lamps is absent on the course detail page.
type Course struct {
	Name      string
	ID        int
	Year      *int
	LectureAt string
	Teacher   string
	Lamps     *CourseLamps
}

// TaskStatusFlag tells whether the assignment window is open.
type TaskStatusFlag int

const (
	TaskWaiting TaskStatusFlag = iota
	TaskOpening
	TaskClosed
)

// YourStatusFlag tells whether the current user personally submitted.
type YourStatusFlag int

const (
	YourWaiting YourStatusFlag = iota
	YourUnsubmitted
	YourSubmitted
)

// TaskStatus is the composite state of a quiz/survey/report. YourStatus
// is absent exactly when the page's status block had a single line.
type TaskStatus struct {
	Flag       TaskStatusFlag
	YourStatus *YourStatusFlag
}

// GradePosition is the user's percentile bucket in the class score
// distribution. Below or Above is absent at the distribution's extremes.
type GradePosition struct {
	BelowPercent *int
	MyPosPercent int
	AbovePercent *int
}

// Query is one row of a course's quiz list.
type Query struct {
	CourseID   int
	ID         int
	Title      string
	Status     TaskStatus
	StatusLamp bool
	StartTime  *time.Time
	EndTime    *time.Time
}

// QueryDetails carries the full quiz detail page.
type QueryDetails struct {
	CourseID    int
	ID          int
	Title       string
	Description string
	StartTime   *time.Time
	EndTime     *time.Time
	Portfolio   *PortfolioType
	ResultView  *ResultViewType
	Status      *TaskStatus
	Grade       *int
	Position    *GradePosition
}

type Survey struct {
	CourseID   int
	ID         int
	Title      string
	Status     TaskStatus
	StatusLamp bool
	StartTime  *time.Time
	EndTime    *time.Time
}

type SurveyDetails struct {
	CourseID  int
	ID        int
	Title     string
	StartTime *time.Time
	EndTime   *time.Time
	Portfolio *PortfolioType
	Resubmit  *StudentResubmitType
	Status    *TaskStatus
}

type Report struct {
	CourseID   int
	ID         int
	Title      string
	Status     TaskStatus
	StatusLamp bool
	StartTime  *time.Time
	EndTime    *time.Time
}

type ReportDetails struct {
	CourseID    int
	ID          int
	Title       string
	Description string
	StartTime   *time.Time
	EndTime     *time.Time
	Portfolio   *PortfolioType
	ResultView  *ResultViewType
	Resubmit    *StudentResubmitType
	Status      *TaskStatus
}

// DrillDetails is the drill flavor of a quiz detail page. Count limits
// use -1 for "unlimited"/"unspecified" the way the page renders them.
type DrillDetails struct {
	CourseID         int
	ID               int
	Title            string
	Description      string
	StartTime        *time.Time
	EndTime          *time.Time
	SubmissionLimit  int
	Portfolio        *PortfolioType
	AnswerView       *AnswerViewType
	Status           *TaskStatus
	CountExams       *int
	MaxScore         *int
	PassingCondition int
}

// Thread is a discussion thread. The thread list page does not render
// comments, so Comments is nil there; the title mirrors the first
// comment's title and is empty when every comment was deleted.
type Thread struct {
	CourseID int
	ID       int
	Title    string
	Comments []ThreadComment
}

// ThreadComment is one post of a thread, in server (chronological) order.
// Title, Author and PostedAt are absent on deleted comments.
type ThreadComment struct {
	CourseID  int
	ThreadID  int
	ID        int
	Title     string
	Author    string
	PostedAt  *time.Time
	ReplyToID *int
	Deleted   bool
	HTML      string
	Files     []File
}

// CourseNews is a course announcement. The list page only fills ID,
// Title, Author and PostedAt.
type CourseNews struct {
	CourseID     int
	ID           int
	Title        string
	Author       string
	PostedAt     *time.Time
	LastEditedBy string
	LastEditedAt *time.Time
	HTML         string
	Files        []File
}

// Content is one entry of a course's content (page collection) list.
// Content ids are opaque strings, not numeric.
type Content struct {
	CourseID    int
	ID          string
	Title       string
	Description string
}

// ContentPage is a single page of a content collection. When Viewable is
// false the page is outside its publish window and HTML and Files stay
// empty.
type ContentPage struct {
	CourseID       int
	ContentID      string
	ID             int
	Title          string
	Author         string
	Version        string
	Viewable       bool
	LastEditedAt   *time.Time
	PublishStartAt *time.Time
	PublishEndAt   *time.Time
	HTML           string
	Files          []File
}

// File is an inline attachment of a news post, thread comment or content
// page. Ownership is implied by the record it is embedded in. UploadedAt
// is absent when the anchor text carries no timestamp.
type File struct {
	Name       string
	UploadedAt *time.Time
	URL        string
}
