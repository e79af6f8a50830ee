package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	CompanyCtx      ContextKey = "company"
	ProjectCtx      ContextKey = "project"
	WorkScheduleCtx ContextKey = "workSchedule"
)
