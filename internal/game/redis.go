package game

const (
	// SubmissionsKey 是一个Set，记录所有已写入的提交令牌，用于快速拦截重复提交。
	// 数据库中games.submission_token的唯一约束才是最终依据。
	SubmissionsKey = "game:submissions"
)
