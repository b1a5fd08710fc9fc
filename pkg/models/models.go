package models

// DateLayout is the format of Video.PostDate.
const DateLayout = "2006-01-02"

type User struct {
	ID       int64  `gorm:"column:userId;primary_key;AUTO_INCREMENT" json:"id"`
	Username string `gorm:"column:userName;type:varchar(260);not null" json:"username"`
	Password string `gorm:"column:userPassword;not null" json:"-"`
}

func (User) TableName() string { return "usermaster" }

type Video struct {
	ID       int64  `gorm:"column:videoId;primary_key;AUTO_INCREMENT" json:"id"`
	Title    string `gorm:"column:videoTitle;type:varchar(100);not null" json:"title"`
	Creator  string `gorm:"column:videoCreator;type:varchar(50);not null" json:"creator"`
	Likes    int64  `gorm:"column:videoLikes;not null" json:"likes"`
	Views    int64  `gorm:"column:videoViews;not null" json:"views"`
	PostDate string `gorm:"column:videoPostDate;type:varchar(20);not null" json:"postDate"`
}

func (Video) TableName() string { return "videomaster" }

// VideoPatch carries the fields of a partial update. Nil fields are left untouched.
type VideoPatch struct {
	Title   *string
	Creator *string
	Likes   *int64
	Views   *int64
}

// Apply overwrites the fields of v that are set in p.
func (p VideoPatch) Apply(v *Video) {
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Creator != nil {
		v.Creator = *p.Creator
	}
	if p.Likes != nil {
		v.Likes = *p.Likes
	}
	if p.Views != nil {
		v.Views = *p.Views
	}
}
