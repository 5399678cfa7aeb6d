package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidInput  = errors.New("invalid input")

	// 流水线各阶段的致命错误，任意一个都会中止本次执行。
	ErrParameter   = errors.New("parameter resolution failed")
	ErrCheckout    = errors.New("checkout failed")
	ErrBuild       = errors.New("image build failed")
	ErrPublish     = errors.New("image publish failed")
	ErrApplyFailed = errors.New("manifest apply failed")
	ErrTimedOut    = errors.New("rollout timed out")

	// ErrRunActive 表示该项目已有执行中的流水线，新触发被拒绝。
	ErrRunActive = errors.New("pipeline run already active")

	ErrRunNotFound     = fmt.Errorf("run %w", ErrNotFound)
	ErrProjectNotFound = fmt.Errorf("project %w", ErrNotFound)
)
