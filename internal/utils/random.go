package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/shift-assign/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         domain.RoleStaff,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

var shiftTitles = []string{
	"前台值班", "机房巡检", "电话客服", "设备维护", "夜间值守",
}
var shiftLocations = []string{
	"东校区服务台", "南校区服务台", "珠海校区服务台", "网络中心机房",
}
var shiftColors = []string{
	"#f87171", "#fbbf24", "#34d399", "#60a5fa", "#a78bfa",
}

// GenerateRandomShift 生成未来两周内的随机班次，约两成是跨夜班次
func GenerateRandomShift() *domain.Shift {
	start := time.Now().
		Truncate(time.Hour).
		Add(time.Duration(rand.Intn(14*24)) * time.Hour).
		Add(time.Duration(rand.Intn(2)*30) * time.Minute)

	var duration time.Duration
	if rand.Intn(5) == 0 {
		// 跨夜班次，先把开始时间挪到晚上
		start = time.Date(start.Year(), start.Month(), start.Day(), 20+rand.Intn(3), 0, 0, 0, time.Local)
		duration = time.Duration(6+rand.Intn(6)) * time.Hour
	} else {
		duration = time.Duration(rand.Intn(7)+1) * time.Hour
	}

	shift := &domain.Shift{
		Title:         shiftTitles[rand.Intn(len(shiftTitles))],
		Location:      shiftLocations[rand.Intn(len(shiftLocations))],
		StartTime:     start,
		EndTime:       start.Add(duration),
		RequiredStaff: int32(rand.Intn(3) + 1),
		Color:         shiftColors[rand.Intn(len(shiftColors))],
		Tasks:         []domain.ShiftTask{},
		IsActive:      true,
	}

	taskNum := rand.Intn(4)
	for i := 0; i < taskNum; i++ {
		shift.Tasks = append(shift.Tasks, domain.ShiftTask{
			Description: "例行任务" + GenerateRandomID(3, 3),
		})
	}

	return shift
}

func GenerateRandomShiftRequest(shift *domain.Shift, staff *domain.User) *domain.ShiftRequest {
	return &domain.ShiftRequest{
		ShiftID:   shift.ID,
		StaffID:   staff.ID,
		StaffNote: "希望排这个班" + GenerateRandomID(2, 2),
	}
}
