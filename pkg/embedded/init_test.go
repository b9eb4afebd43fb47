// init_test.go - 测试环境初始化
//
// 测试无法使用项目根目录的 embed 声明，这里用 os.DirFS 指向项目根目录，
// 让需要实际数据文件的测试读取仓库中的 data/ 目录。

package embedded

import (
	"os"
	"testing"
)

// initFromRepo 从项目根目录初始化，测试结束后恢复为未初始化状态
func initFromRepo(t *testing.T) {
	t.Helper()
	if _, err := os.Stat("../../data"); err != nil {
		t.Skipf("data directory not found: %v", err)
	}
	Init(os.DirFS("../.."))
	t.Cleanup(reset)
}

func reset() {
	dataFS = nil
	initialized = false
}
