package locate

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrDirectoryNotFound 表示在基础目录下找不到账号对应的数据目录。
var ErrDirectoryNotFound = errors.New("未找到账号数据目录")

var (
	wxidPrefixRe = regexp.MustCompile(`(?i)^(wxid_[a-zA-Z0-9]+)`)
	suffixRe     = regexp.MustCompile(`^(.+)_([a-zA-Z0-9]{4})$`)
)

// CleanAccountID 规整账号ID, 以兼容不同版本的目录命名。
// wxid_ 开头的标准格式只保留规范前缀: wxid_xxx_yyyy -> wxid_xxx;
// 自定义微信号带 4 位字母数字后缀时去掉后缀: xiangchao1985_b29d -> xiangchao1985。
func CleanAccountID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return trimmed
	}

	if strings.HasPrefix(strings.ToLower(trimmed), "wxid_") {
		if m := wxidPrefixRe.FindStringSubmatch(trimmed); m != nil {
			return m[1]
		}
		return trimmed
	}

	if m := suffixRe.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	return trimmed
}

// ResolveAccountDir 把逻辑账号ID解析为基础目录下的实际目录名。
// 匹配优先级: 原始ID精确匹配 > 规整ID精确匹配 > 忽略大小写的目录扫描。
// 该函数只读取目录列表, 不改变任何状态。
func ResolveAccountDir(baseDir, id string) (string, error) {
	cleaned := CleanAccountID(id)

	// 1. 直接匹配原始ID
	if isDir(filepath.Join(baseDir, id)) {
		return id, nil
	}

	// 2. 直接匹配规整后的ID
	if cleaned != id && isDir(filepath.Join(baseDir, cleaned)) {
		return cleaned, nil
	}

	// 3. 扫描目录查找匹配
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		log.Warn().Err(err).Str("baseDir", baseDir).Msg("读取基础目录失败")
		return "", ErrDirectoryNotFound
	}

	idLower := strings.ToLower(id)
	cleanedLower := strings.ToLower(cleaned)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dirName := entry.Name()
		dirLower := strings.ToLower(dirName)

		// 精确匹配（忽略大小写）
		if dirLower == idLower || dirLower == cleanedLower {
			return dirName, nil
		}

		// 前缀匹配: 目录名以 ID 开头（下划线分隔）
		if strings.HasPrefix(dirLower, idLower+"_") || strings.HasPrefix(dirLower, cleanedLower+"_") {
			return dirName, nil
		}

		// 反向前缀匹配: ID 以目录名开头
		if strings.HasPrefix(idLower, dirLower+"_") || strings.HasPrefix(cleanedLower, dirLower+"_") {
			return dirName, nil
		}

		// 规整目录名后匹配
		cleanedDir := strings.ToLower(CleanAccountID(dirName))
		if cleanedDir == idLower || cleanedDir == cleanedLower {
			return dirName, nil
		}
	}

	return "", ErrDirectoryNotFound
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
