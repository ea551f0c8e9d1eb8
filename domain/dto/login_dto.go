package dto

// ReqLogin is the body of POST /login on the remote API
type ReqLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ResLogin carries jwt_token on success and error_msg otherwise
type ResLogin struct {
	JwtToken   string `json:"jwt_token,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	ErrorMsg   string `json:"error_msg,omitempty"`
}
