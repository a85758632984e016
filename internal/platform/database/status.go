package database

import (
	"fmt"
	"sync"
)

// statusManager 负责线程安全地管理和提供系统的健康状态。
type statusManager struct {
	mu             sync.RWMutex
	isStoreHealthy bool
	isRedisHealthy bool
}

// 全局的状态管理器实例
var globalStatus = &statusManager{
	isStoreHealthy: true, // 默认启动时是健康的
	isRedisHealthy: true,
}

// IsStoreHealthy 返回远程数据库当前的健康状态。
func IsStoreHealthy() bool {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.isStoreHealthy
}

// IsRedisHealthy 返回Redis镜像当前的健康状态。
func IsRedisHealthy() bool {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.isRedisHealthy
}

// UpdateStoreStatus 用于线程安全地更新数据库健康状态。
func UpdateStoreStatus(isHealthy bool) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()

	// 只有当状态发生变化时才打印日志
	if globalStatus.isStoreHealthy != isHealthy {
		globalStatus.isStoreHealthy = isHealthy
		if isHealthy {
			fmt.Println("健康检查: 数据库状态已更新为 [可用]")
		} else {
			fmt.Println("健康检查警告: 数据库状态已更新为 [不可用]")
		}
	}
}

// UpdateRedisStatus 用于线程安全地更新Redis健康状态。
// 返回值表示Redis是否刚刚从不可用状态恢复。
func UpdateRedisStatus(isHealthy bool) bool {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()

	recovered := false
	if globalStatus.isRedisHealthy != isHealthy {
		globalStatus.isRedisHealthy = isHealthy
		if isHealthy {
			fmt.Println("健康检查: Redis服务状态已更新为 [可用]")
			recovered = true
		} else {
			fmt.Println("健康检查警告: Redis服务状态已更新为 [不可用]")
		}
	}
	return recovered
}
