package detect

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/chiwei-platform/pipeline-engine/internal/domain"
)

const nodeDockerfile = `FROM node:20-alpine
WORKDIR /app
COPY package*.json ./
RUN npm install --omit=dev
COPY . .
EXPOSE {{.Port}}
CMD ["npm", "start"]
`

const jvmDockerfile = `FROM maven:3.9-eclipse-temurin-17 AS build
WORKDIR /app
COPY . .
RUN mvn -q package -DskipTests
FROM eclipse-temurin:17-jre
WORKDIR /app
COPY --from=build /app/target/*.jar app.jar
EXPOSE {{.Port}}
CMD ["java", "-jar", "app.jar"]
`

const pythonDockerfile = `FROM python:3.12-slim
WORKDIR /app
COPY requirements.txt .
RUN pip install --no-cache-dir -r requirements.txt
COPY . .
EXPOSE {{.Port}}
CMD ["python", "app.py"]
`

const staticDockerfile = `FROM nginx:alpine
COPY . /usr/share/nginx/html
EXPOSE {{.Port}}
`

var dockerfileTemplates = map[domain.ProjectType]*template.Template{
	domain.ProjectTypeNode:   template.Must(template.New("node").Parse(nodeDockerfile)),
	domain.ProjectTypeJVM:    template.Must(template.New("jvm").Parse(jvmDockerfile)),
	domain.ProjectTypePython: template.Must(template.New("python").Parse(pythonDockerfile)),
	domain.ProjectTypeStatic: template.Must(template.New("static").Parse(staticDockerfile)),
}

// EnsureDockerfile 在工作树里保证存在一份 Dockerfile。
// 仓库自带的优先（用户意图不覆盖）；否则按项目类型模板合成，
// 暴露端口取该类型的默认端口。返回是否发生了合成。
func EnsureDockerfile(dir string, projectType domain.ProjectType, port int) (generated bool, err error) {
	path := filepath.Join(dir, "Dockerfile")
	if _, statErr := os.Stat(path); statErr == nil {
		return false, nil
	}

	tmpl, ok := dockerfileTemplates[projectType]
	if !ok {
		return false, fmt.Errorf("no dockerfile template for project type %q", projectType)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Port int }{Port: port}); err != nil {
		return false, fmt.Errorf("render dockerfile template: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("write dockerfile: %w", err)
	}
	return true, nil
}
