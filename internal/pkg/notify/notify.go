package notify

// CodeSender 定义验证码投递接口。
type CodeSender interface {
	// SendVerificationCode 把验证码发送到指定邮箱。
	//
	// 参数:
	//   toEmail: 接收邮箱
	//   code: 6 位数字验证码
	SendVerificationCode(toEmail string, code string) error
}
