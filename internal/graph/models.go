package graph

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type siteResponse struct {
	ID string `json:"id"`
}

type drive struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type drivesResponse struct {
	Value []drive `json:"value"`
}

type driveItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type uploadSession struct {
	UploadURL string `json:"uploadUrl"`
}
