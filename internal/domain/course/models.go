package course

// ModuleType describes what kind of content a SectionModule holds. The
// remote system has many more types than we render; anything we don't
// recognise is stored as ModuleUnknown and filtered at read time.
type ModuleType string

const (
	ModulePage     ModuleType = "page"
	ModuleBook     ModuleType = "book"
	ModuleForum    ModuleType = "forum"
	ModuleResource ModuleType = "resource"
	ModuleUrl      ModuleType = "url"
	ModuleUnknown  ModuleType = "unknown"
)

// ModuleTypeFromString maps a remote "modname" onto a ModuleType.
func ModuleTypeFromString(s string) ModuleType {
	switch ModuleType(s) {
	case ModulePage, ModuleBook, ModuleForum, ModuleResource, ModuleUrl:
		return ModuleType(s)
	default:
		return ModuleUnknown
	}
}

// Course is a remote course mirrored locally. The id comes from the remote
// system and is never generated locally.
type Course struct {
	ID     int64
	Name   string
	Colour *string
	Icon   *string
}

// CourseSection is one section of a course. Rank preserves the remote
// display order.
type CourseSection struct {
	ID       int64
	CourseID int64
	Name     string
	Rank     int64
}

// SectionModule is a single module inside a section. UpdatedAt is the remote
// modification epoch, used for content/blob staleness independent of the
// sync ledger.
type SectionModule struct {
	ID         int64
	SectionID  int64
	Name       string
	ModuleType ModuleType
	UpdatedAt  int64
}

// ModuleContent is a unit of inline content belonging to a module. Identified
// by (ID, ModuleID) since the remote numbers contents per module.
type ModuleContent struct {
	ID        int64
	ModuleID  int64
	Rank      int64
	UpdatedAt int64
	Content   string
}

// ContentBlob is a binary attachment of a module, stored on disk with only
// its path persisted. Identified by (ModuleID, Name).
type ContentBlob struct {
	ModuleID  int64
	Name      string
	MimeType  string
	Path      string
	UpdatedAt int64
}

// SectionWithModules is a section joined with its (filtered) modules.
type SectionWithModules struct {
	Section CourseSection
	Modules []SectionModule
}

// CourseWithSections is the authoritative local view of one course.
type CourseWithSections struct {
	Course   Course
	Sections []SectionWithModules
}

// ModuleWithContents is a module joined with its inline contents.
type ModuleWithContents struct {
	Module   SectionModule
	Contents []ModuleContent
}
