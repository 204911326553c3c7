package course

import (
	"context"
	"net/http"

	"github.com/roach88/journey/internal/api/models/common"
	apiCourse "github.com/roach88/journey/internal/api/models/course"
	domainBlob "github.com/roach88/journey/internal/domain/blob"
	domainCourse "github.com/roach88/journey/internal/domain/course"
	"github.com/roach88/journey/internal/domain/remote"
	domainSync "github.com/roach88/journey/internal/domain/sync"

	"github.com/rs/zerolog/log"
)

const (
	taskNameUserCourses   = "Get user courses"
	taskNameCourseState   = "Get course state"
	taskNameModuleContent = "Get module content"
)

// Controller is an interface that defines the methods that are available to
// the routing layer. It is framework-agnostic.
//
// Every read revalidates first: if the local mirror is stale for the
// resource, the remote is consulted and merged before the local view is
// served. When a refresh fails but the mirror still holds a usable view, the
// cached view is served and the failure surfaces via sync task events only.
type Controller interface {

	// ListCourses returns the signed-in user's courses, revalidating the
	// course list first.
	ListCourses(ctx context.Context) ([]apiCourse.Course, *common.ApiError)

	// GetCourse returns one course with its sections and modules,
	// revalidating the course state first.
	GetCourse(ctx context.Context, courseID int64) (*apiCourse.CourseWithSections, *common.ApiError)

	// GetModule returns one module with its inline contents, revalidating
	// the module content first.
	GetModule(ctx context.Context, courseID int64, moduleID int64) (*apiCourse.ModuleWithContents, *common.ApiError)

	// GetModuleBlobs returns the downloaded attachment records of one
	// module, revalidating the module content first.
	GetModuleBlobs(ctx context.Context, courseID int64, moduleID int64) ([]apiCourse.ContentBlob, *common.ApiError)

	// GetSession probes the remote session and reports whether the stored
	// credentials are still usable. Not revalidated through the sync
	// orchestrator; a session probe is cheap and callers want it live.
	GetSession(ctx context.Context) (*apiCourse.SessionStatus, *common.ApiError)
}

func New(
	store domainCourse.Store,
	gateway remote.Gateway,
	creds remote.CredentialProvider,
	orchestrator *domainSync.Orchestrator,
	blobs domainBlob.Store,
	supportedTypes []string,
) Controller {
	allowed := make([]domainCourse.ModuleType, 0, len(supportedTypes))
	for _, t := range supportedTypes {
		allowed = append(allowed, domainCourse.ModuleTypeFromString(t))
	}
	return &impl{
		store:        store,
		gateway:      gateway,
		creds:        creds,
		orchestrator: orchestrator,
		blobs:        blobs,
		allowed:      allowed,
	}
}

type impl struct {
	store        domainCourse.Store
	gateway      remote.Gateway
	creds        remote.CredentialProvider
	orchestrator *domainSync.Orchestrator
	blobs        domainBlob.Store
	allowed      []domainCourse.ModuleType
}

func (c *impl) ListCourses(ctx context.Context) ([]apiCourse.Course, *common.ApiError) {
	result, err := domainSync.Revalidate(
		ctx,
		c.orchestrator,
		domainSync.CourseListKey(),
		taskNameUserCourses,
		c.refreshUserCourses,
		c.store.Courses,
	)
	if err != nil {
		if len(result) == 0 {
			return nil, handleErr(err)
		}
		logServedStale(domainSync.CourseListKey(), err)
	}
	return apiCourse.FromDomainCourses(result), nil
}

func (c *impl) GetCourse(ctx context.Context, courseID int64) (*apiCourse.CourseWithSections, *common.ApiError) {
	key := domainSync.CourseKey(courseID)
	result, err := domainSync.Revalidate(
		ctx,
		c.orchestrator,
		key,
		taskNameCourseState,
		func(ctx context.Context) error {
			return c.refreshCourseState(ctx, courseID)
		},
		func(ctx context.Context) (*domainCourse.CourseWithSections, error) {
			return c.store.CourseWithSections(ctx, courseID, c.allowed)
		},
	)
	if err != nil {
		if result == nil {
			return nil, handleErr(err)
		}
		logServedStale(key, err)
	}
	view := apiCourse.FromDomainCourseWithSections(result)
	return &view, nil
}

func (c *impl) GetModule(ctx context.Context, courseID int64, moduleID int64) (*apiCourse.ModuleWithContents, *common.ApiError) {
	key := domainSync.ModuleKey(courseID, moduleID)
	result, err := domainSync.Revalidate(
		ctx,
		c.orchestrator,
		key,
		taskNameModuleContent,
		func(ctx context.Context) error {
			return c.refreshModuleContent(ctx, courseID, moduleID)
		},
		func(ctx context.Context) (*domainCourse.ModuleWithContents, error) {
			return c.store.ModuleWithContents(ctx, courseID, moduleID)
		},
	)
	if err != nil {
		if result == nil {
			return nil, handleErr(err)
		}
		logServedStale(key, err)
	}
	view := apiCourse.FromDomainModuleWithContents(result)
	return &view, nil
}

func (c *impl) GetModuleBlobs(ctx context.Context, courseID int64, moduleID int64) ([]apiCourse.ContentBlob, *common.ApiError) {
	key := domainSync.ModuleKey(courseID, moduleID)
	result, err := domainSync.Revalidate(
		ctx,
		c.orchestrator,
		key,
		taskNameModuleContent,
		func(ctx context.Context) error {
			return c.refreshModuleContent(ctx, courseID, moduleID)
		},
		func(ctx context.Context) ([]domainCourse.ContentBlob, error) {
			return c.store.ContentBlobs(ctx, courseID, moduleID)
		},
	)
	if err != nil {
		if result == nil {
			return nil, handleErr(err)
		}
		logServedStale(key, err)
	}
	return apiCourse.FromDomainBlobs(result), nil
}

func (c *impl) GetSession(ctx context.Context) (*apiCourse.SessionStatus, *common.ApiError) {
	credentials, err := c.creds.Current(ctx)
	if err != nil {
		switch err.(type) {
		case remote.NoCredentials:
			return &apiCourse.SessionStatus{Status: apiCourse.SessionSignedOut}, nil
		default:
			return nil, handleErr(err)
		}
	}
	info, err := c.gateway.FetchSiteInfo(ctx, *credentials)
	if err != nil {
		switch err.(type) {
		case remote.Unauthorized:
			return &apiCourse.SessionStatus{Status: apiCourse.SessionInvalid}, nil
		default:
			return nil, handleErr(err)
		}
	}
	return &apiCourse.SessionStatus{
		Status:   apiCourse.SessionValid,
		UserID:   &info.UserID,
		FullName: &info.FullName,
		SiteName: &info.SiteName,
	}, nil
}

// <-- Refreshers

func (c *impl) refreshUserCourses(ctx context.Context) error {
	credentials, err := c.creds.Current(ctx)
	if err != nil {
		return err
	}
	raw, err := c.gateway.FetchUserCourses(ctx, *credentials)
	if err != nil {
		return err
	}
	courses := make([]domainCourse.Course, 0, len(raw))
	for _, rc := range raw {
		courses = append(courses, domainCourse.Course{
			ID:   rc.ID,
			Name: rc.FullName,
		})
	}
	return c.store.UpsertCourses(ctx, courses)
}

func (c *impl) refreshCourseState(ctx context.Context, courseID int64) error {
	credentials, err := c.creds.Current(ctx)
	if err != nil {
		return err
	}
	raw, err := c.gateway.FetchCourseSections(ctx, *credentials, courseID)
	if err != nil {
		return err
	}
	sections := make([]domainCourse.CourseSection, 0, len(raw))
	modules := make([]domainCourse.SectionModule, 0)
	for _, rs := range raw {
		sections = append(sections, toDomainSection(courseID, rs))
		for _, rm := range rs.Modules {
			modules = append(modules, toDomainModule(rs.ID, rm, 0))
		}
	}
	return c.store.UpsertCourseState(ctx, courseID, sections, modules)
}

func (c *impl) refreshModuleContent(ctx context.Context, courseID int64, moduleID int64) error {
	credentials, err := c.creds.Current(ctx)
	if err != nil {
		return err
	}
	raw, err := c.gateway.FetchModuleContent(ctx, *credentials, courseID, moduleID)
	if err != nil {
		return err
	}
	section, module, ok := findModule(raw, moduleID)
	if !ok {
		return remote.ParseErr{Cause: moduleMissing{courseID: courseID, moduleID: moduleID}}
	}

	existing, err := c.existingBlobTimestamps(ctx, courseID, moduleID)
	if err != nil {
		return err
	}

	contents := make([]domainCourse.ModuleContent, 0, len(module.Contents))
	blobs := make([]domainCourse.ContentBlob, 0)
	latest := int64(0)
	for i, rc := range module.Contents {
		if rc.TimeModified > latest {
			latest = rc.TimeModified
		}
		switch rc.Type {
		case remote.ContentTypeFile:
			blob, err := c.mirrorFile(ctx, *credentials, moduleID, rc, existing)
			if err != nil {
				return err
			}
			blobs = append(blobs, blob)
		default:
			// The remote assigns no id to inline content entries; their
			// position within the module is the only stable identity.
			inline := ""
			if rc.Content != nil {
				inline = *rc.Content
			}
			contents = append(contents, domainCourse.ModuleContent{
				ID:        int64(i + 1),
				ModuleID:  moduleID,
				Rank:      rc.SortOrder,
				UpdatedAt: rc.TimeModified,
				Content:   inline,
			})
		}
	}

	domainSection := toDomainSection(courseID, *section)
	domainModule := toDomainModule(section.ID, *module, latest)
	return c.store.UpsertModuleContent(ctx, courseID, domainSection, domainModule, contents, blobs)
}

// mirrorFile downloads a file content entry unless the locally mirrored copy
// already carries the remote's timemodified, in which case the stored path
// is reused untouched.
func (c *impl) mirrorFile(ctx context.Context, credentials remote.Credentials, moduleID int64, rc remote.RawContent, existing map[string]existingBlob) (domainCourse.ContentBlob, error) {
	mimeType := ""
	if rc.MimeType != nil {
		mimeType = *rc.MimeType
	}
	if prior, ok := existing[rc.FileName]; ok && prior.updatedAt == rc.TimeModified {
		return domainCourse.ContentBlob{
			ModuleID:  moduleID,
			Name:      rc.FileName,
			MimeType:  mimeType,
			Path:      prior.path,
			UpdatedAt: rc.TimeModified,
		}, nil
	}
	if rc.FileURL == nil {
		return domainCourse.ContentBlob{}, remote.ParseErr{Cause: fileURLMissing{name: rc.FileName}}
	}
	data, err := c.gateway.DownloadFile(ctx, credentials, *rc.FileURL)
	if err != nil {
		return domainCourse.ContentBlob{}, err
	}
	path, err := c.blobs.Save(ctx, moduleID, rc.FileName, data)
	if err != nil {
		return domainCourse.ContentBlob{}, err
	}
	return domainCourse.ContentBlob{
		ModuleID:  moduleID,
		Name:      rc.FileName,
		MimeType:  mimeType,
		Path:      path,
		UpdatedAt: rc.TimeModified,
	}, nil
}

type existingBlob struct {
	path      string
	updatedAt int64
}

func (c *impl) existingBlobTimestamps(ctx context.Context, courseID int64, moduleID int64) (map[string]existingBlob, error) {
	rows, err := c.store.ContentBlobs(ctx, courseID, moduleID)
	if err != nil {
		switch err.(type) {
		case domainCourse.NotFound:
			// First sync of this module; nothing mirrored yet.
			return map[string]existingBlob{}, nil
		default:
			return nil, err
		}
	}
	out := make(map[string]existingBlob, len(rows))
	for _, b := range rows {
		out[b.Name] = existingBlob{path: b.Path, updatedAt: b.UpdatedAt}
	}
	return out, nil
}

//     Refreshers -->

func toDomainSection(courseID int64, rs remote.RawSection) domainCourse.CourseSection {
	return domainCourse.CourseSection{
		ID:       rs.ID,
		CourseID: courseID,
		Name:     rs.Name,
		Rank:     rs.Rank,
	}
}

func toDomainModule(sectionID int64, rm remote.RawModule, updatedAt int64) domainCourse.SectionModule {
	return domainCourse.SectionModule{
		ID:         rm.ID,
		SectionID:  sectionID,
		Name:       rm.Name,
		ModuleType: domainCourse.ModuleTypeFromString(rm.ModName),
		UpdatedAt:  updatedAt,
	}
}

func findModule(sections []remote.RawSection, moduleID int64) (*remote.RawSection, *remote.RawModule, bool) {
	for i := range sections {
		for j := range sections[i].Modules {
			if sections[i].Modules[j].ID == moduleID {
				return &sections[i], &sections[i].Modules[j], true
			}
		}
	}
	return nil, nil, false
}

func logServedStale(key domainSync.Key, err error) {
	log.Warn().
		Err(err).
		Str("key", string(key)).
		Msg("Refresh failed; serving the last mirrored view")
}

type moduleMissing struct {
	courseID int64
	moduleID int64
}

func (e moduleMissing) Error() string {
	return "remote course payload does not contain the requested module"
}

type fileURLMissing struct {
	name string
}

func (e fileURLMissing) Error() string {
	return "file content entry has no download url: " + e.name
}

func handleErr(err error) *common.ApiError {
	switch v := err.(type) {
	case domainCourse.NotFound:
		return notFound(v)
	case remote.NoCredentials:
		return unauthorized(v)
	case remote.Unauthorized:
		return unauthorized(v)
	case remote.ApplicationErr:
		return badGateway(v)
	case remote.TransportErr:
		return badGateway(v)
	case remote.ParseErr:
		return badGateway(v)
	default:
		return unhandledErr(v)
	}
}

func notFound(err error) *common.ApiError {
	return &common.ApiError{
		StatusCode: http.StatusNotFound,
		Body: common.Body{
			Message: err.Error(),
		},
	}
}

func unauthorized(err error) *common.ApiError {
	return &common.ApiError{
		StatusCode: http.StatusUnauthorized,
		Body: common.Body{
			Message: err.Error(),
		},
	}
}

func badGateway(err error) *common.ApiError {
	return &common.ApiError{
		StatusCode: http.StatusBadGateway,
		Body: common.Body{
			Message: err.Error(),
		},
	}
}

func unhandledErr(err error) *common.ApiError {
	log.Error().Err(err).Msg("Unexpected error")
	return &common.ApiError{
		StatusCode: http.StatusInternalServerError,
		Body: common.Body{
			Message: err.Error(),
		},
	}
}
