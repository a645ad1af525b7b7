package model

// Capability 能力枚举，接口访问控制按能力而不是角色字符串判定
type Capability string

const (
	CapCreateArticles  Capability = "create_articles"
	CapManageEmployees Capability = "manage_employees"
	CapAccessMedia     Capability = "access_media"
	CapAccessAnalytics Capability = "access_analytics"
)

// Capabilities 返回用户当前启用的能力，管理员在鉴权层整体放行
func (u *User) Capabilities() []Capability {
	caps := make([]Capability, 0, 4)
	if u.CanCreateArticles {
		caps = append(caps, CapCreateArticles)
	}
	if u.CanManageEmployees {
		caps = append(caps, CapManageEmployees)
	}
	if u.CanAccessMedia {
		caps = append(caps, CapAccessMedia)
	}
	if u.CanAccessAnalytics {
		caps = append(caps, CapAccessAnalytics)
	}
	return caps
}

// CapabilityStrings JWT 里携带的能力快照
func (u *User) CapabilityStrings() []string {
	caps := u.Capabilities()
	out := make([]string, 0, len(caps))
	for _, c := range caps {
		out = append(out, string(c))
	}
	return out
}
