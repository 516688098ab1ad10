package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type RequestApprovedMailData struct {
	FullName   string `json:"fullName"`
	ShiftTitle string `json:"shiftTitle"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	AdminNote  string `json:"adminNote"`
}

type RequestRejectedMailData struct {
	FullName   string `json:"fullName"`
	ShiftTitle string `json:"shiftTitle"`
	StartTime  string `json:"startTime"`
	AdminNote  string `json:"adminNote"`
}
