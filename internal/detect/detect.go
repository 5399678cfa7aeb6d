// Package detect 对检出的源码树做项目类型分类，并在仓库未自带
// Dockerfile 时按类型模板合成一份。
package detect

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

// marker 的顺序即判定优先级，首个命中者生效。
// 例如同时含 package.json 和 index.html 的仓库判为 node，不是 static。
var markers = []struct {
	file        string
	projectType domain.ProjectType
}{
	{"package.json", domain.ProjectTypeNode},
	{"pom.xml", domain.ProjectTypeJVM},
	{"build.gradle", domain.ProjectTypeJVM},
	{"requirements.txt", domain.ProjectTypePython},
	{"index.html", domain.ProjectTypeStatic},
}

// ProjectType 是检出树到项目类型的全函数：四类标记都缺席时落到
// static 兜底，因此永不失败。兜底命中会打告警，便于发现漏检。
func ProjectType(dir string) domain.ProjectType {
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(dir, m.file)); err == nil {
			return m.projectType
		}
	}
	slog.Warn("no project marker found, defaulting to static", "dir", dir)
	return domain.ProjectTypeStatic
}
