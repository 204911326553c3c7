package moodle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/roach88/journey/internal/domain/remote"
)

const restEndpoint = "/webservice/rest/server.php"

// Webservice function names, as the remote registers them.
const (
	wsGetUserCourses    = "core_enrol_get_users_courses"
	wsGetCourseContents = "core_course_get_contents"
	wsGetSiteInfo       = "core_webservice_get_site_info"
)

// Client is the remote Gateway implementation for Moodle-compatible sites.
// It classifies responses but never retries; the next sync attempt is the
// retry mechanism.
type Client struct {
	httpClient *http.Client
}

// New returns a Client with the given per-request timeout. The timeout is
// the only time-bounding the gateway does.
func New(requestTimeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) FetchUserCourses(ctx context.Context, creds remote.Credentials) ([]remote.RawCourse, error) {
	form := url.Values{}
	form.Set("wsfunction", wsGetUserCourses)
	form.Set("userid", strconv.FormatInt(creds.UserID, 10))

	var courses []remote.RawCourse
	if err := c.call(ctx, creds, form, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) FetchCourseSections(ctx context.Context, creds remote.Credentials, courseID int64) ([]remote.RawSection, error) {
	form := url.Values{}
	form.Set("wsfunction", wsGetCourseContents)
	form.Set("courseid", strconv.FormatInt(courseID, 10))
	// Section/module structure only; contents are fetched per module.
	form.Set("options[0][name]", "excludecontents")
	form.Set("options[0][value]", "1")

	var sections []remote.RawSection
	if err := c.call(ctx, creds, form, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (c *Client) FetchModuleContent(ctx context.Context, creds remote.Credentials, courseID int64, moduleID int64) ([]remote.RawSection, error) {
	form := url.Values{}
	form.Set("wsfunction", wsGetCourseContents)
	form.Set("courseid", strconv.FormatInt(courseID, 10))
	form.Set("options[0][name]", "includestealthmodules")
	form.Set("options[0][value]", "1")
	form.Set("options[1][name]", "cmid")
	form.Set("options[1][value]", strconv.FormatInt(moduleID, 10))

	var sections []remote.RawSection
	if err := c.call(ctx, creds, form, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

func (c *Client) FetchSiteInfo(ctx context.Context, creds remote.Credentials) (*remote.SiteInfo, error) {
	form := url.Values{}
	form.Set("wsfunction", wsGetSiteInfo)

	var info siteInfoResponse
	if err := c.call(ctx, creds, form, &info); err != nil {
		return nil, err
	}
	return &remote.SiteInfo{UserID: info.UserID, FullName: info.FullName, SiteName: info.SiteName}, nil
}

func (c *Client) DownloadFile(ctx context.Context, creds remote.Credentials, fileURL string) ([]byte, error) {
	// File URLs from the contents payload accept the token as a query
	// parameter rather than a form field.
	u, err := url.Parse(fileURL)
	if err != nil {
		return nil, remote.TransportErr{Cause: err}
	}
	q := u.Query()
	q.Set("token", creds.WsToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, remote.TransportErr{Cause: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, remote.TransportErr{Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, remote.TransportErr{Cause: fmt.Errorf("unexpected status %d downloading file", resp.StatusCode)}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, remote.TransportErr{Cause: err}
	}
	return data, nil
}

// call executes one webservice function and decodes the payload into out.
// Classification: a non-success HTTP status or a payload carrying the error
// envelope is an error; anything else that decodes into out is success.
func (c *Client) call(ctx context.Context, creds remote.Credentials, form url.Values, out interface{}) error {
	form.Set("wstoken", creds.WsToken)
	form.Set("moodlewsrestformat", "json")
	form.Set("moodlewssettinglang", "en")

	endpoint := strings.TrimSuffix(creds.Host, "/") + restEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return remote.TransportErr{Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return remote.TransportErr{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return remote.TransportErr{Cause: err}
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return remote.Unauthorized{Detail: resp.Status}
	}
	if resp.StatusCode != http.StatusOK {
		return remote.TransportErr{Cause: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body))}
	}

	// The webservice reports application errors with HTTP 200 and an error
	// envelope body; decode it as a typed value before the real payload.
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.isError() {
		if envelope.isUnauthorized() {
			return remote.Unauthorized{Detail: envelope.Message}
		}
		return remote.ApplicationErr{Code: envelope.ErrorCode, Message: envelope.Message}
	}

	if err := json.Unmarshal(body, out); err != nil {
		log.Error().
			Err(err).
			Str("function", form.Get("wsfunction")).
			Msg("Remote payload did not match the expected shape")
		return remote.ParseErr{Cause: err}
	}
	return nil
}

func truncate(body []byte) string {
	const max = 256
	if len(body) <= max {
		return string(body)
	}
	return string(body[:max]) + "..."
}
