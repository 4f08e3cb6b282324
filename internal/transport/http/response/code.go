package response

// 错误码直接基于 HTTP 语义（资源接口成功时返回裸文档，不走信封）
const (
	CodeBadRequest   = 400
	CodeNotFound     = 404
	CodeTooMany      = 429
	CodeServerError  = 500
	CodeGatewayTmout = 504
)

var CodeMsgMap = map[int]string{
	CodeBadRequest:   "Bad Request",
	CodeNotFound:     "Not Found",
	CodeTooMany:      "Too Many Requests",
	CodeServerError:  "Internal Server Error",
	CodeGatewayTmout: "Gateway Timeout",
}
