package remote

// Credentials are what the remote system needs to authorise a webservice
// call. Acquisition (login flow, token refresh) happens outside the core; a
// CredentialProvider hands these over already valid.
type Credentials struct {
	// Host is the base URL of the remote site, e.g. "https://lms.example.edu".
	Host string
	// WsToken authorises webservice REST calls.
	WsToken string
	// UserID is the remote id of the signed-in user.
	UserID int64
}

// RawCourse is a course as the remote reports it, before mapping into the
// local model.
type RawCourse struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullname"`
}

// RawSection is a course section with its modules as the remote reports it.
type RawSection struct {
	ID      int64       `json:"id"`
	Name    string      `json:"name"`
	Rank    int64       `json:"section"`
	Modules []RawModule `json:"modules"`
}

// RawModule is a module within a section. Contents is only populated by the
// module-content fetch variant; the section fetch excludes contents.
type RawModule struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	ModName     string       `json:"modname"`
	Description *string      `json:"description,omitempty"`
	Contents    []RawContent `json:"contents,omitempty"`
}

// RawContent is one content entry of a module: either inline content or a
// downloadable file.
type RawContent struct {
	Type         string  `json:"type"`
	FileName     string  `json:"filename"`
	FilePath     string  `json:"filepath"`
	FileURL      *string `json:"fileurl,omitempty"`
	TimeModified int64   `json:"timemodified"`
	MimeType     *string `json:"mimetype,omitempty"`
	SortOrder    int64   `json:"sortorder"`
	Content      *string `json:"content,omitempty"`
}

const (
	ContentTypeFile    = "file"
	ContentTypeContent = "content"
)

// SiteInfo is the remote's description of the current session.
type SiteInfo struct {
	UserID   int64  `json:"userid"`
	FullName string `json:"fullname"`
	SiteName string `json:"sitename"`
}
