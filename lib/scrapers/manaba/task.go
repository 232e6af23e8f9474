package manaba

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"manaba-go/lib/htmlutil"
	"manaba-go/lib/scrapers/manaba/core"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var (
	queryIDRegex  = regexp.MustCompile(`course_[0-9]+_query_([0-9]+)`)
	surveyIDRegex = regexp.MustCompile(`course_[0-9]+_survey_([0-9]+)`)
	reportIDRegex = regexp.MustCompile(`course_[0-9]+_report_([0-9]+)`)
)

// Detail table keys as manaba renders them.
const (
	detailDescription      = "課題に関する説明"
	detailStartTime        = "受付開始日時"
	detailEndTime          = "受付終了日時"
	detailPortfolio        = "ポートフォリオ"
	detailResultView       = "採点結果と正解の公開"
	detailStatus           = "状態"
	detailResubmit         = "学生による再提出の許可"
	detailPortfolioAndView = "ポートフォリオ / 閲覧設定"
	detailSubmissionLimit  = "提出上限"
	detailAnswerView       = "正解の公開"
	detailCountExams       = "受験回数"
	detailMaxScore         = "最高得点"
	detailPassingCondition = "合格条件"
)

// taskRow is one entry of a quiz/survey/report list. All three lists
// share the same markup: an h3 with lamp icon, link and title, then
// status, start and end cells.
type taskRow struct {
	id        int
	title     string
	status    TaskStatus
	lamp      bool
	startTime *time.Time
	endTime   *time.Time
}

func parseTaskRows(doc *goquery.Document, idPattern *regexp.Regexp) ([]taskRow, error) {
	stdList := doc.Find("table.stdlist").First()
	if stdList.Length() == 0 {
		return nil, nil
	}

	var rows []taskRow
	var walkErr error
	stdList.Find("tr.row, tr.row0, tr.row1").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		h3 := tr.Find("h3").First()
		id, err := idFromHref(idPattern, h3.Find("a").First().AttrOr("href", ""))
		if err != nil {
			walkErr = err
			return false
		}

		tds := tr.Find("td")
		if tds.Length() < 4 {
			walkErr = fmt.Errorf("task row has %d cells: %w", tds.Length(), ErrMalformedPage)
			return false
		}

		status, err := ParseTaskStatus(strings.TrimSpace(htmlutil.TextWithBreaks(tds.Eq(1))))
		if err != nil {
			walkErr = err
			return false
		}
		startTime, err := ParseDateTime(strings.TrimSpace(tds.Eq(2).Text()))
		if err != nil {
			walkErr = err
			return false
		}
		endTime, err := ParseDateTime(strings.TrimSpace(tds.Eq(3).Text()))
		if err != nil {
			walkErr = err
			return false
		}

		rows = append(rows, taskRow{
			id:        id,
			title:     htmlutil.CleanText(h3.Text()),
			status:    status,
			lamp:      strings.HasSuffix(h3.Find("img").First().AttrOr("src", ""), "on.png"),
			startTime: startTime,
			endTime:   endTime,
		})
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return rows, nil
}

// parseDetailTable walks the th/td rows of a detail table into a key
// value map, skipping the title row. breakLines renders <br> inside
// values as newlines, which report pages need for their multi-line
// cells.
func parseDetailTable(table *goquery.Selection, breakLines bool) map[string]string {
	details := map[string]string{}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass("title") {
			return
		}
		th := tr.Find("th").First()
		td := tr.Find("td").First()
		if th.Length() == 0 || td.Length() == 0 {
			return
		}

		var value string
		if breakLines {
			value = htmlutil.TextWithBreaks(td)
		} else {
			value = td.Text()
		}
		details[strings.TrimSpace(th.Text())] = strings.TrimSpace(value)
	})
	return details
}

// detailStatusOf resolves the 状態 cell of a detail table. A
// span.expired anywhere in scope means the window closed on the user
// without a submission, overriding whatever the cell says.
func detailStatusOf(details map[string]string, expired bool) (*TaskStatus, error) {
	value, ok := details[detailStatus]
	if !ok || value == "" {
		return nil, nil
	}
	if expired {
		your := YourUnsubmitted
		return &TaskStatus{Flag: TaskClosed, YourStatus: &your}, nil
	}
	status, err := ParseTaskStatus(value)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

func detailTimesOf(details map[string]string) (start, end *time.Time, err error) {
	start, err = ParseDateTime(details[detailStartTime])
	if err != nil {
		return nil, nil, err
	}
	end, err = ParseDateTime(details[detailEndTime])
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// Queries lists the quizzes of a course. A course without the quiz
// feature renders no stdlist table and yields an empty list.
func (c Client) Queries(ctx context.Context, courseID int) ([]Query, error) {
	ctx, span := tracer.Start(ctx, "client:Queries")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, courseURL(courseID)+"_query")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch quiz list")
		return nil, err
	}
	rows, err := parseTaskRows(doc, queryIDRegex)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse quiz list")
		return nil, err
	}

	queries := make([]Query, 0, len(rows))
	for _, row := range rows {
		queries = append(queries, Query{
			CourseID:   courseID,
			ID:         row.id,
			Title:      row.title,
			Status:     row.status,
			StatusLamp: row.lamp,
			StartTime:  row.startTime,
			EndTime:    row.endTime,
		})
	}
	return queries, nil
}

// Query fetches the detail page of one quiz.
func (c Client) Query(ctx context.Context, courseID, queryID int) (QueryDetails, error) {
	ctx, span := tracer.Start(ctx, "client:Query")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, fmt.Sprintf("%s_query_%d", courseURL(courseID), queryID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch quiz page")
		return QueryDetails{}, err
	}

	table := doc.Find("table.stdlist-query").First()
	if table.Length() == 0 {
		err := fmt.Errorf("quiz %d in course %d: %w", queryID, courseID, core.ErrNotFound)
		span.SetStatus(codes.Error, err.Error())
		return QueryDetails{}, err
	}

	details := parseDetailTable(table, false)
	status, err := detailStatusOf(details, table.Find("span.expired").Length() > 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse quiz status")
		return QueryDetails{}, err
	}
	start, end, err := detailTimesOf(details)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse quiz times")
		return QueryDetails{}, err
	}

	result := QueryDetails{
		CourseID:    courseID,
		ID:          queryID,
		Title:       strings.TrimSpace(doc.Find("tr.title").First().Text()),
		Description: details[detailDescription],
		StartTime:   start,
		EndTime:     end,
		Portfolio:   ParsePortfolioType(details[detailPortfolio]),
		ResultView:  ParseResultViewType(details[detailResultView]),
		Status:      status,
	}

	gradeList := doc.Find("table.gradelist").First()
	if gradeList.Length() > 0 {
		if grade, err := strconv.Atoi(strings.TrimSpace(gradeList.Find("td.grade").First().Text())); err == nil {
			result.Grade = &grade
		}
		position, err := parseGradeBar(gradeList)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to parse grade bar")
			return QueryDetails{}, err
		}
		result.Position = position
	}

	return result, nil
}

// Drill fetches the drill variant of a quiz detail page. Drills share
// the quiz URL space but replace the result-view policy with an answer
// publication policy and add attempt bookkeeping.
func (c Client) Drill(ctx context.Context, courseID, drillID int) (DrillDetails, error) {
	ctx, span := tracer.Start(ctx, "client:Drill")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, fmt.Sprintf("%s_query_%d", courseURL(courseID), drillID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch drill page")
		return DrillDetails{}, err
	}

	table := doc.Find("table.stdlist-query").First()
	if table.Length() == 0 {
		err := fmt.Errorf("drill %d in course %d: %w", drillID, courseID, core.ErrNotFound)
		span.SetStatus(codes.Error, err.Error())
		return DrillDetails{}, err
	}

	details := parseDetailTable(table, false)
	status, err := detailStatusOf(details, table.Find("span.expired").Length() > 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse drill status")
		return DrillDetails{}, err
	}
	start, end, err := detailTimesOf(details)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse drill times")
		return DrillDetails{}, err
	}

	return DrillDetails{
		CourseID:         courseID,
		ID:               drillID,
		Title:            strings.TrimSpace(doc.Find("tr.title").First().Text()),
		Description:      details[detailDescription],
		StartTime:        start,
		EndTime:          end,
		SubmissionLimit:  boundedCount(details[detailSubmissionLimit]),
		Portfolio:        ParsePortfolioType(details[detailPortfolio]),
		AnswerView:       ParseAnswerViewType(details[detailAnswerView]),
		Status:           status,
		CountExams:       optionalCount(details[detailCountExams]),
		MaxScore:         optionalCount(details[detailMaxScore]),
		PassingCondition: boundedCount(details[detailPassingCondition]),
	}, nil
}

// boundedCount reads a count cell that renders -1 semantics as prose
// (無制限 for the submission limit, an empty or dash cell for an unset
// passing condition).
func boundedCount(value string) int {
	n, err := strconv.Atoi(leadingInt(value))
	if err != nil {
		return -1
	}
	return n
}

// optionalCount reads a count cell that stays empty until the user has
// attempted the drill.
func optionalCount(value string) *int {
	n, err := strconv.Atoi(leadingInt(value))
	if err != nil {
		return nil
	}
	return &n
}

var leadingIntRegex = regexp.MustCompile(`^-?[0-9]+`)

// leadingInt strips the unit suffix off cells like 3回 or 80点.
func leadingInt(value string) string {
	return leadingIntRegex.FindString(strings.TrimSpace(value))
}

// Surveys lists the surveys of a course.
func (c Client) Surveys(ctx context.Context, courseID int) ([]Survey, error) {
	ctx, span := tracer.Start(ctx, "client:Surveys")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, courseURL(courseID)+"_survey")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch survey list")
		return nil, err
	}
	rows, err := parseTaskRows(doc, surveyIDRegex)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse survey list")
		return nil, err
	}

	surveys := make([]Survey, 0, len(rows))
	for _, row := range rows {
		surveys = append(surveys, Survey{
			CourseID:   courseID,
			ID:         row.id,
			Title:      row.title,
			Status:     row.status,
			StatusLamp: row.lamp,
			StartTime:  row.startTime,
			EndTime:    row.endTime,
		})
	}
	return surveys, nil
}

// Survey fetches the detail page of one survey.
func (c Client) Survey(ctx context.Context, courseID, surveyID int) (SurveyDetails, error) {
	ctx, span := tracer.Start(ctx, "client:Survey")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, fmt.Sprintf("%s_survey_%d", courseURL(courseID), surveyID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch survey page")
		return SurveyDetails{}, err
	}

	table := doc.Find("table.stdlist-query").First()
	if table.Length() == 0 {
		err := fmt.Errorf("survey %d in course %d: %w", surveyID, courseID, core.ErrNotFound)
		span.SetStatus(codes.Error, err.Error())
		return SurveyDetails{}, err
	}

	details := parseDetailTable(table, false)
	status, err := detailStatusOf(details, table.Find("span.expired").Length() > 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse survey status")
		return SurveyDetails{}, err
	}
	start, end, err := detailTimesOf(details)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse survey times")
		return SurveyDetails{}, err
	}

	return SurveyDetails{
		CourseID:  courseID,
		ID:        surveyID,
		Title:     strings.TrimSpace(doc.Find("tr.title").First().Text()),
		StartTime: start,
		EndTime:   end,
		Portfolio: ParsePortfolioType(details[detailPortfolio]),
		Resubmit:  ParseStudentResubmitType(details[detailResubmit]),
		Status:    status,
	}, nil
}

// Reports lists the report assignments of a course.
func (c Client) Reports(ctx context.Context, courseID int) ([]Report, error) {
	ctx, span := tracer.Start(ctx, "client:Reports")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, courseURL(courseID)+"_report")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch report list")
		return nil, err
	}
	rows, err := parseTaskRows(doc, reportIDRegex)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse report list")
		return nil, err
	}

	reports := make([]Report, 0, len(rows))
	for _, row := range rows {
		reports = append(reports, Report{
			CourseID:   courseID,
			ID:         row.id,
			Title:      row.title,
			Status:     row.status,
			StatusLamp: row.lamp,
			StartTime:  row.startTime,
			EndTime:    row.endTime,
		})
	}
	return reports, nil
}

// Report fetches the detail page of one report assignment. Report pages
// pack the portfolio and view-settings policies into one " / " joined
// cell, and an expired marker can also live in the submission form
// below the detail table.
func (c Client) Report(ctx context.Context, courseID, reportID int) (ReportDetails, error) {
	ctx, span := tracer.Start(ctx, "client:Report")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, fmt.Sprintf("%s_report_%d", courseURL(courseID), reportID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch report page")
		return ReportDetails{}, err
	}

	table := doc.Find("table.stdlist-report").First()
	if table.Length() == 0 {
		err := fmt.Errorf("report %d in course %d: %w", reportID, courseID, core.ErrNotFound)
		span.SetStatus(codes.Error, err.Error())
		return ReportDetails{}, err
	}

	details := parseDetailTable(table, true)

	var portfolio *PortfolioType
	var resultView *ResultViewType
	if combined, ok := details[detailPortfolioAndView]; ok && strings.Contains(combined, " / ") {
		parts := strings.SplitN(combined, " / ", 2)
		portfolio = ParsePortfolioType(parts[0])
		resultView = ParseResultViewType(parts[1])
	}

	expired := table.Find("span.expired").Length() > 0 ||
		doc.Find("div.report-form span.expired").Length() > 0
	status, err := detailStatusOf(details, expired)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse report status")
		return ReportDetails{}, err
	}
	start, end, err := detailTimesOf(details)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse report times")
		return ReportDetails{}, err
	}

	return ReportDetails{
		CourseID:    courseID,
		ID:          reportID,
		Title:       strings.TrimSpace(doc.Find("tr.title").First().Text()),
		Description: details[detailDescription],
		StartTime:   start,
		EndTime:     end,
		Portfolio:   portfolio,
		ResultView:  resultView,
		Resubmit:    ParseStudentResubmitType(details[detailResubmit]),
		Status:      status,
	}, nil
}

// parseGradeBar reads the class-distribution bar under a grade list.
// The bar is a single-row table whose td widths are percentages; the
// user's own segment carries the gradebar class. One segment means the
// whole class sits in one bucket, two means the user is at an extreme
// of the distribution, three is the general case.
func parseGradeBar(gradeList *goquery.Selection) (*GradePosition, error) {
	barForm := gradeList.Find("table.form").First()
	if barForm.Length() == 0 {
		return nil, nil
	}

	bars := barForm.Find("td")
	widths := make([]int, bars.Length())
	for i := range widths {
		width, err := strconv.Atoi(strings.TrimSuffix(bars.Eq(i).AttrOr("width", ""), "%"))
		if err != nil {
			return nil, fmt.Errorf("grade bar segment %d has no width: %w", i, ErrMalformedPage)
		}
		widths[i] = width
	}

	switch len(widths) {
	case 1:
		return &GradePosition{MyPosPercent: widths[0]}, nil
	case 2:
		if bars.Eq(0).HasClass("gradebar") {
			return &GradePosition{MyPosPercent: widths[0], AbovePercent: &widths[1]}, nil
		}
		if bars.Eq(1).HasClass("gradebar") {
			return &GradePosition{BelowPercent: &widths[0], MyPosPercent: widths[1]}, nil
		}
		return nil, fmt.Errorf("two-segment grade bar without gradebar marker: %w", ErrMalformedPage)
	case 3:
		return &GradePosition{BelowPercent: &widths[0], MyPosPercent: widths[1], AbovePercent: &widths[2]}, nil
	}
	return nil, fmt.Errorf("grade bar has %d segments: %w", len(widths), ErrMalformedPage)
}
