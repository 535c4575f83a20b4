package handler

// moveAppRequest is the body for POST /api/folders/move. A null folder id
// unfiles the app.
type moveAppRequest struct {
	AppID    string  `json:"appId"`
	FolderID *string `json:"folderId"`
}
