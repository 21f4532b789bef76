package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符
type EntityID uint64

// MutationKind 实体树变更类型
type MutationKind int

const (
	// MutationChildList 结构变更（实体/组件的增删）
	MutationChildList MutationKind = iota
	// MutationAttributes 组件属性变更（如 disabled/readonly/type）
	MutationAttributes
)

// Mutation 一条变更记录
type Mutation struct {
	Kind      MutationKind
	Entity    EntityID
	Attribute string // 仅 MutationAttributes 有效
}

// MutationObserver 变更观察者回调
type MutationObserver func(m Mutation)

// EntityManager 管理所有实体和组件
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]interface{}
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
	// 变更观察者（相当于页面的 MutationObserver）
	observers []MutationObserver
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:            1, // ID从1开始,0保留为无效ID
		components:        make(map[EntityID]map[reflect.Type]interface{}),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// Observe 注册变更观察者
func (em *EntityManager) Observe(observer MutationObserver) {
	if observer != nil {
		em.observers = append(em.observers, observer)
	}
}

func (em *EntityManager) notify(m Mutation) {
	for _, o := range em.observers {
		o(m)
	}
}

// NotifyAttributeChanged 通知某实体的组件属性发生了变化
// 组件是纯数据指针，直接修改字段不会被感知，修改方需要显式调用本方法
func (em *EntityManager) NotifyAttributeChanged(id EntityID, attribute string) {
	if _, exists := em.components[id]; !exists {
		return
	}
	em.notify(Mutation{Kind: MutationAttributes, Entity: id, Attribute: attribute})
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]interface{})
	return id
}

// EntityExists 检查实体是否存在（未被清理）
func (em *EntityManager) EntityExists(id EntityID) bool {
	_, exists := em.components[id]
	return exists
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// AddComponent 为实体添加组件
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	componentType := reflect.TypeOf(component)
	if compMap, exists := em.components[id]; exists {
		compMap[componentType] = component
		em.notify(Mutation{Kind: MutationChildList, Entity: id})
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, exists := em.components[id]; exists {
		if _, found := compMap[componentType]; !found {
			return
		}
		delete(compMap, componentType)
		em.notify(Mutation{Kind: MutationChildList, Entity: id})
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	if compMap, exists := em.components[id]; exists {
		if comp, found := compMap[componentType]; found {
			return comp, true
		}
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	if compMap, exists := em.components[id]; exists {
		_, found := compMap[componentType]
		return found
	}
	return false
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	for _, id := range em.entitiesToDestroy {
		if _, exists := em.components[id]; !exists {
			continue
		}
		delete(em.components, id)
		em.notify(Mutation{Kind: MutationChildList, Entity: id})
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0] // 清空切片
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表（按创建顺序，即文档顺序）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for id, compMap := range em.components {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
