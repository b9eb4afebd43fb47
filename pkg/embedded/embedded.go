// Package embedded 提供嵌入数据文件的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包保存这个文件系统，让其他包可以按 "data/xxx.yaml" 路径读取。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ko2345-cloud/eat-party/pkg/config"
)

// 数据文件路径
const (
	FruitsPath = "data/fruits.yaml"
	PathsPath  = "data/paths.yaml"
	TuningPath = "data/tuning.yaml"
)

var (
	dataFS      fs.FS
	initialized bool
)

// Init 设置数据文件系统
// 必须在 main() 开始时、任何配置加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 统一路径格式并校验前缀
func normalize(path string) (string, error) {
	if !initialized {
		return "", fmt.Errorf("embedded package not initialized, call Init() first")
	}
	// embed.FS 使用正斜杠
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")
	if !strings.HasPrefix(path, "data/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", path)
	}
	return path, nil
}

// Open 打开嵌入的数据文件，路径必须以 "data/" 开头
func Open(path string) (fs.File, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return dataFS.Open(path)
}

// ReadFile 读取嵌入的数据文件，路径必须以 "data/" 开头
func ReadFile(path string) ([]byte, error) {
	path, err := normalize(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, path)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配嵌入的数据文件
func Glob(pattern string) ([]string, error) {
	pattern, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, pattern)
}

// Configs 一局游戏需要的全部配置
type Configs struct {
	Fruits *config.FruitConfig
	Paths  *config.PathCatalogConfig
	Tuning *config.TuningConfig
}

// LoadConfigs 从嵌入的数据文件解析全部配置
//
// 返回:
//   - *Configs: 解析后的配置
//   - error: 任一文件缺失或解析失败时返回错误，错误信息包含文件路径
func LoadConfigs() (*Configs, error) {
	fruitsData, err := ReadFile(FruitsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FruitsPath, err)
	}
	fruits, err := config.ParseFruitConfig(fruitsData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", FruitsPath, err)
	}

	pathsData, err := ReadFile(PathsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", PathsPath, err)
	}
	paths, err := config.ParsePathCatalogConfig(pathsData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", PathsPath, err)
	}

	tuningData, err := ReadFile(TuningPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TuningPath, err)
	}
	tuning, err := config.ParseTuningConfig(tuningData)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", TuningPath, err)
	}

	return &Configs{Fruits: fruits, Paths: paths, Tuning: tuning}, nil
}
