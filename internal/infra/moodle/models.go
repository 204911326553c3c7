package moodle

// errorEnvelope is the structured error shape the webservice returns inside
// an HTTP 200 response. Deserialized and inspected as a typed value; the
// presence of an errorcode marks the payload as an error regardless of the
// HTTP status.
type errorEnvelope struct {
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

func (e errorEnvelope) isError() bool {
	return e.ErrorCode != "" || e.Exception != ""
}

// invalidTokenCodes are the error codes that mean the credentials, not the
// request, were rejected.
var invalidTokenCodes = map[string]bool{
	"invalidtoken":        true,
	"invalidsesskey":      true,
	"accessexception":     true,
	"sitemaintenancemode": false,
}

func (e errorEnvelope) isUnauthorized() bool {
	return invalidTokenCodes[e.ErrorCode]
}

// siteInfoResponse is the payload of core_webservice_get_site_info.
type siteInfoResponse struct {
	UserID   int64  `json:"userid"`
	FullName string `json:"fullname"`
	SiteName string `json:"sitename"`
}
