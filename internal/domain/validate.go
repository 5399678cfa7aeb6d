package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// k8sNameRegex 匹配合法的 K8s 资源名称：小写字母开头，只含小写字母、数字和连字符，长度 2-63。
var k8sNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,61}[a-z0-9]$`)

// ValidateK8sName 校验名称是否可安全用作 K8s 资源名。
func ValidateK8sName(name string) error {
	if !k8sNameRegex.MatchString(name) {
		return fmt.Errorf("%w: name %q is not a valid k8s resource name", ErrInvalidInput, name)
	}
	return nil
}

// ValidateSourceURL 校验仓库地址，只允许 https:// 或 git:// 协议，防止 SSRF。
func ValidateSourceURL(sourceURL string) error {
	if sourceURL == "" {
		return fmt.Errorf("%w: source_url is required", ErrInvalidInput)
	}
	if !strings.HasPrefix(sourceURL, "https://") && !strings.HasPrefix(sourceURL, "git://") {
		return fmt.Errorf("%w: source_url must use https:// or git:// protocol", ErrInvalidInput)
	}
	return nil
}

// branchRegex 白名单：字母、数字、-、_、.、/
var branchRegex = regexp.MustCompile(`^[a-zA-Z0-9._/-]+$`)

// ValidateBranch 校验分支名，使用字符白名单。
func ValidateBranch(branch string) error {
	if branch == "" {
		return fmt.Errorf("%w: branch is required", ErrInvalidInput)
	}
	if !branchRegex.MatchString(branch) {
		return fmt.Errorf("%w: branch %q contains invalid characters", ErrInvalidInput, branch)
	}
	return nil
}
