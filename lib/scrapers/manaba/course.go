package manaba

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"manaba-go/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var courseIDRegex = regexp.MustCompile(`course_([0-9]+)`)

// Courses lists every course the logged-in user participates in. The
// home page renders the list in whichever of the three layouts the user
// last picked, so the current layout is detected first (it is the tab
// whose switch link carries the chglistformat parameter) and the
// matching parser does the rest.
func (c Client) Courses(ctx context.Context) ([]Course, error) {
	ctx, span := tracer.Start(ctx, "client:Courses")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, "/ct/home_course")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course list")
		return nil, err
	}

	currentTab := doc.Find("ul.infolist-tab li.current a").First()
	if currentTab.Length() == 0 {
		err := fmt.Errorf("course list has no layout tab: %w", ErrMalformedPage)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	tabHref, err := url.Parse(currentTab.AttrOr("href", ""))
	if err != nil {
		span.SetStatus(codes.Error, "unparsable layout tab href")
		return nil, fmt.Errorf("unparsable layout tab href: %w", ErrMalformedPage)
	}
	layout := tabHref.Query().Get("chglistformat")

	myCourses := doc.Find("div.mycourses-body")

	var courses []Course
	switch layout {
	case "thumbnail":
		courses, err = coursesFromThumbnail(myCourses)
	case "list":
		courses, err = coursesFromList(myCourses)
	case "timetable":
		courses, err = coursesFromTimetable(myCourses, doc.Find("table.courselist"))
	default:
		err = fmt.Errorf("unknown course list layout %q: %w", layout, ErrMalformedPage)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse course list")
		return nil, err
	}
	return courses, nil
}

func coursesFromThumbnail(myCourses *goquery.Selection) ([]Course, error) {
	var courses []Course
	var walkErr error
	myCourses.Find("div.coursecard").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		titleLink := card.Find("div.course-card-title a").First()
		courseID, err := idFromHref(courseIDRegex, titleLink.AttrOr("href", ""))
		if err != nil {
			walkErr = err
			return false
		}

		course := Course{
			Name: htmlutil.CleanText(titleLink.Text()),
			ID:   courseID,
		}

		// the dt/dd pairs are positional: 時限 carries "<year><lecture
		// slot>" with the slot in a nested span, 担当 carries the teacher
		items := card.Find("dl.courseitems")
		dts := items.ChildrenFiltered("dt.courseitemtext")
		dds := items.ChildrenFiltered("dd.courseitemdetail")
		dts.Each(func(i int, dt *goquery.Selection) {
			if i >= dds.Length() {
				return
			}
			dd := dds.Eq(i)
			switch htmlutil.CleanText(dt.Text()) {
			case "時限":
				lectureAt := dd.Find("span").First().Text()
				course.LectureAt = lectureAt
				yearText := strings.TrimSpace(strings.Replace(dd.Text(), lectureAt, "", 1))
				if year, err := strconv.Atoi(yearText); err == nil {
					course.Year = &year
				}
			case "担当":
				course.Teacher = htmlutil.CleanText(dd.Text())
			}
		})

		lamps, err := parseLamps(card.Find("div.course-card-status"))
		if err != nil {
			walkErr = err
			return false
		}
		course.Lamps = lamps

		courses = append(courses, course)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return courses, nil
}

func coursesFromList(myCourses *goquery.Selection) ([]Course, error) {
	var courses []Course
	var walkErr error
	myCourses.Find("tr.courselist-c").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		title := row.Find("span.courselist-title").First()
		courseID, err := idFromHref(courseIDRegex, title.Find("a").First().AttrOr("href", ""))
		if err != nil {
			walkErr = err
			return false
		}

		course := Course{
			Name: htmlutil.CleanText(title.Text()),
			ID:   courseID,
		}

		tds := row.Find("td")
		if tds.Length() > 1 {
			if year, err := strconv.Atoi(strings.TrimSpace(tds.Eq(1).Text())); err == nil {
				course.Year = &year
			}
		}
		if tds.Length() > 2 {
			course.LectureAt = htmlutil.CleanText(tds.Eq(2).Text())
		}
		if tds.Length() > 3 {
			course.Teacher = htmlutil.CleanText(tds.Eq(3).Text())
		}

		lamps, err := parseLamps(row.Find("div.course-card-status"))
		if err != nil {
			walkErr = err
			return false
		}
		course.Lamps = lamps

		courses = append(courses, course)
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return courses, nil
}

// coursesFromTimetable reads the weekly grid cells, then appends the
// courses outside the grid, which manaba renders as a plain list table
// below it.
func coursesFromTimetable(myCourses, courseList *goquery.Selection) ([]Course, error) {
	var courses []Course
	var walkErr error
	myCourses.Find("div.courselistweekly-c").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		anchor := card.Find("a").First()
		courseID, err := idFromHref(courseIDRegex, anchor.AttrOr("href", ""))
		if err != nil {
			walkErr = err
			return false
		}

		lamps, err := parseLamps(card.Find("div.coursestatus"))
		if err != nil {
			walkErr = err
			return false
		}

		courses = append(courses, Course{
			Name:  htmlutil.CleanText(anchor.Text()),
			ID:    courseID,
			Lamps: lamps,
		})
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	rest, err := coursesFromList(courseList)
	if err != nil {
		return nil, err
	}
	return append(courses, rest...), nil
}

// parseLamps reads the five status icons in card order: news, deadline,
// grade, thread, individual. A lamp is lit when its icon ends in
// "on.png". Any other icon count means the markup changed.
func parseLamps(statusBox *goquery.Selection) (*CourseLamps, error) {
	imgs := statusBox.Find("img")
	if imgs.Length() != 5 {
		return nil, fmt.Errorf("course status box has %d lamps: %w", imgs.Length(), ErrMalformedPage)
	}
	lit := func(i int) bool {
		return strings.HasSuffix(imgs.Eq(i).AttrOr("src", ""), "on.png")
	}
	return &CourseLamps{
		News:       lit(0),
		Deadline:   lit(1),
		Grade:      lit(2),
		Thread:     lit(3),
		Individual: lit(4),
	}, nil
}

// Course fetches the header of a single course page. The course list
// layouts omit some header fields, so this is the authoritative way to
// get them; lamps only exist on list cards and stay nil here.
func (c Client) Course(ctx context.Context, courseID int) (Course, error) {
	ctx, span := tracer.Start(ctx, "client:Course")
	defer span.End()

	doc, err := c.core.GetDoc(ctx, courseURL(courseID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch course page")
		return Course{}, err
	}

	name := doc.Find("a#coursename").First()
	if name.Length() == 0 {
		err := fmt.Errorf("course page has no course name: %w", ErrMalformedPage)
		span.SetStatus(codes.Error, err.Error())
		return Course{}, err
	}

	course := Course{
		Name:    htmlutil.CleanText(name.Text()),
		ID:      courseID,
		Teacher: htmlutil.CleanText(doc.Find("span.courseteacher").First().Text()),
	}

	// coursedata-info is "<year><lecture slot>" with the slot nested in
	// its own span
	info := doc.Find("span.coursedata-info").First()
	lectureAt := info.Find("span").First().Text()
	course.LectureAt = lectureAt
	yearText := strings.TrimSpace(strings.Replace(info.Text(), lectureAt, "", 1))
	year, err := strconv.Atoi(yearText)
	if err != nil {
		err := fmt.Errorf("course year %q is not numeric: %w", yearText, ErrMalformedPage)
		span.SetStatus(codes.Error, err.Error())
		return Course{}, err
	}
	course.Year = &year

	return course, nil
}
