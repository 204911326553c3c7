package course

import (
	domainCourse "github.com/roach88/journey/internal/domain/course"
)

// API models mirror the domain entities with the JSON shapes the UI binds
// to (camelCase, as the previous desktop shell exported them).

type Course struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Colour *string `json:"colour,omitempty"`
	Icon   *string `json:"icon,omitempty"`
}

type CourseSection struct {
	ID       int64  `json:"id"`
	CourseID int64  `json:"courseId"`
	Name     string `json:"name"`
	Rank     int64  `json:"rank"`
}

type SectionModule struct {
	ID         int64  `json:"id"`
	SectionID  int64  `json:"sectionId"`
	Name       string `json:"name"`
	ModuleType string `json:"moduleType"`
	UpdatedAt  int64  `json:"updatedAt"`
}

type ModuleContent struct {
	ID        int64  `json:"id"`
	ModuleID  int64  `json:"moduleId"`
	Rank      int64  `json:"rank"`
	UpdatedAt int64  `json:"updatedAt"`
	Content   string `json:"content"`
}

type ContentBlob struct {
	ModuleID  int64  `json:"moduleId"`
	Name      string `json:"name"`
	MimeType  string `json:"mimeType"`
	Path      string `json:"path"`
	UpdatedAt int64  `json:"updatedAt"`
}

type SectionWithModules struct {
	Section CourseSection   `json:"section"`
	Modules []SectionModule `json:"modules"`
}

type CourseWithSections struct {
	Course   Course               `json:"course"`
	Sections []SectionWithModules `json:"sections"`
}

type ModuleWithContents struct {
	Module   SectionModule   `json:"module"`
	Contents []ModuleContent `json:"contents"`
}

// SessionStatus reports the credential/session state to the UI.
type SessionStatus struct {
	Status   string  `json:"status"`
	UserID   *int64  `json:"userId,omitempty"`
	FullName *string `json:"fullName,omitempty"`
	SiteName *string `json:"siteName,omitempty"`
}

const (
	SessionValid     = "valid"
	SessionInvalid   = "invalid"
	SessionSignedOut = "signed_out"
)

func FromDomainCourse(c *domainCourse.Course) Course {
	return Course{
		ID:     c.ID,
		Name:   c.Name,
		Colour: c.Colour,
		Icon:   c.Icon,
	}
}

func FromDomainCourses(courses []domainCourse.Course) []Course {
	out := make([]Course, 0, len(courses))
	for i := range courses {
		out = append(out, FromDomainCourse(&courses[i]))
	}
	return out
}

func FromDomainSection(s *domainCourse.CourseSection) CourseSection {
	return CourseSection{
		ID:       s.ID,
		CourseID: s.CourseID,
		Name:     s.Name,
		Rank:     s.Rank,
	}
}

func FromDomainModule(m *domainCourse.SectionModule) SectionModule {
	return SectionModule{
		ID:         m.ID,
		SectionID:  m.SectionID,
		Name:       m.Name,
		ModuleType: string(m.ModuleType),
		UpdatedAt:  m.UpdatedAt,
	}
}

func FromDomainCourseWithSections(view *domainCourse.CourseWithSections) CourseWithSections {
	out := CourseWithSections{
		Course:   FromDomainCourse(&view.Course),
		Sections: make([]SectionWithModules, 0, len(view.Sections)),
	}
	for i := range view.Sections {
		sec := SectionWithModules{
			Section: FromDomainSection(&view.Sections[i].Section),
			Modules: make([]SectionModule, 0, len(view.Sections[i].Modules)),
		}
		for j := range view.Sections[i].Modules {
			sec.Modules = append(sec.Modules, FromDomainModule(&view.Sections[i].Modules[j]))
		}
		out.Sections = append(out.Sections, sec)
	}
	return out
}

func FromDomainModuleWithContents(view *domainCourse.ModuleWithContents) ModuleWithContents {
	out := ModuleWithContents{
		Module:   FromDomainModule(&view.Module),
		Contents: make([]ModuleContent, 0, len(view.Contents)),
	}
	for _, mc := range view.Contents {
		out.Contents = append(out.Contents, ModuleContent{
			ID:        mc.ID,
			ModuleID:  mc.ModuleID,
			Rank:      mc.Rank,
			UpdatedAt: mc.UpdatedAt,
			Content:   mc.Content,
		})
	}
	return out
}

func FromDomainBlobs(blobs []domainCourse.ContentBlob) []ContentBlob {
	out := make([]ContentBlob, 0, len(blobs))
	for _, b := range blobs {
		out = append(out, ContentBlob{
			ModuleID:  b.ModuleID,
			Name:      b.Name,
			MimeType:  b.MimeType,
			Path:      b.Path,
			UpdatedAt: b.UpdatedAt,
		})
	}
	return out
}
