package api

// Entry is one file or directory record returned by the listing endpoints
type Entry struct {
	Path     string `json:"Path"`
	Name     string `json:"Name"`
	IsDir    bool   `json:"IsDir"`
	FileSize int64  `json:"FileSize"` // -1 when unknown
	ModTime  int64  `json:"ModTime"`  // unix seconds
}

// User classes as reported by the server
const (
	ClassSystemAdmin = "系统管理员"
	ClassConfigAdmin = "配置管理员"
	ClassUser        = "普通用户"
	ClassGuest       = "游客"
)

// Permission levels derived from the user class
const (
	LevelGuest       = 1
	LevelUser        = 2
	LevelConfigAdmin = 3
	LevelSystemAdmin = 4
)

// UserInfo describes the signed-in user
type UserInfo struct {
	Name          string `json:"Name"`
	RealName      string `json:"RealName"`
	Department    string `json:"Department"`
	LastIp        int64  `json:"LastIp"`
	LastLoginTime int64  `json:"LastLoginTime"`
	Class         string `json:"Class"`
	CurrentIp     int64  `json:"CurrentIp"`
}

// Level maps the user class to a permission level. Unknown classes get guest rights.
func (u UserInfo) Level() int {
	return ClassLevel(u.Class)
}

// ClassLevel returns the permission level for a class name
func ClassLevel(class string) int {
	switch class {
	case ClassSystemAdmin, "admin":
		return LevelSystemAdmin
	case ClassConfigAdmin, "config-admin":
		return LevelConfigAdmin
	case ClassUser, "user":
		return LevelUser
	default:
		return LevelGuest
	}
}

// SysConfig is the server configuration exposed by /api/conf
type SysConfig struct {
	HttpAddr        string              `json:"HttpAddr"`
	Departments     []string            `json:"Departments"`
	RootPath        string              `json:"RootPath"`
	MaxUploadSize   int64               `json:"MaxUploadSize"`
	MaxDownloadSize int64               `json:"MaxDownloadSize"`
	ExtTable        string              `json:"ExtTable"`
	ArchiveTable    string              `json:"ArchiveTable"`
	GroupAuthority  map[string][]string `json:"GroupAuthority"`
}

// UserRecord is one row of /api/usrs
type UserRecord struct {
	Uid           int64  `json:"Uid"`
	Name          string `json:"Name"`
	RealName      string `json:"RealName"`
	Department    string `json:"Department"`
	Class         string `json:"Class"`
	RegIp         int64  `json:"RegIp"`
	LastIp        int64  `json:"LastIp"`
	RegTime       int64  `json:"RegTime"`
	LastLoginTime int64  `json:"LastLoginTime"`
}

// CountRecord is one row of /api/cnt
type CountRecord struct {
	IsDir    bool   `json:"IsDir"`
	FileSize int64  `json:"FileSize"` // negative when the path no longer exists
	Path     string `json:"Path"`
	Cnt      int    `json:"Cnt"`
	Time     int64  `json:"Time"`
}

// DownloadRecord is one row of /api/downloads
type DownloadRecord struct {
	IsDir      bool   `json:"IsDir"`
	FileSize   int64  `json:"FileSize"`
	Path       string `json:"Path"`
	RealName   string `json:"RealName"`
	Department string `json:"Department"`
	Class      string `json:"Class"`
	Ip         int64  `json:"Ip"`
	Time       int64  `json:"Time"`
}

// List keys of the paginated envelopes
const (
	UserListKey     = "UsrList"
	CountListKey    = "CntList"
	DownloadListKey = "DownloadList"
)

// Graph flags
const (
	GraphYear    = "Year"
	GraphMonth   = "Month"
	GraphDay     = "Day"
	GraphWeekday = "Weekday"
)

// Graph is the response of /api/graph
type Graph struct {
	Flag      string  `json:"Flag"`
	PointList []Point `json:"PointList"`
}

// Point is one sample of a download graph
type Point struct {
	Year    int `json:"Year"`
	Month   int `json:"Month"`
	Day     int `json:"Day"`
	Weekday int `json:"Weekday"`
	Cnt     int `json:"Cnt"`
}

// GraphQuery selects the graph series
type GraphQuery struct {
	Flag  string
	Year  int
	Day   int
	Limit int
}

// LoginForm is posted to /api/login
type LoginForm struct {
	Name     string
	Password string
	Captcha  string
}

// RegisterForm is posted to /api/usrs when an administrator adds a user
type RegisterForm struct {
	Name       string
	Password   string
	RealName   string
	Department string
	Class      string
}
