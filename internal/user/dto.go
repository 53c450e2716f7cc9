package user

// InfoResponse is the data payload of GET /api/user/info.
type InfoResponse struct {
	ID       int64    `json:"id"`
	RealName string   `json:"realName"`
	Roles    []string `json:"roles"`
	Username string   `json:"username"`
}
