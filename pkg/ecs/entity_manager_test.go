package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testPlacement struct {
	X, Z, Yaw float64
}

type testGait struct {
	Speed float64
}

var (
	placementType = reflect.TypeOf(&testPlacement{})
	gaitType      = reflect.TypeOf(&testGait{})
)

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	// ID 从 1 开始且唯一
	if id1 != 1 || id2 != 2 {
		t.Errorf("Expected IDs 1 and 2, got %d and %d", id1, id2)
	}
	if !em.Exists(id1) || em.Exists(99) {
		t.Error("Exists reports wrong result")
	}
	if em.EntityCount() != 2 {
		t.Errorf("Expected 2 entities, got %d", em.EntityCount())
	}
}

func TestAddGetRemoveComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	if em.HasComponent(id, placementType) {
		t.Error("Should not have component before adding")
	}
	em.AddComponent(id, &testPlacement{X: 1, Z: -2})

	comp, found := em.GetComponent(id, placementType)
	if !found {
		t.Fatal("Component should be found")
	}
	if p := comp.(*testPlacement); p.X != 1 || p.Z != -2 {
		t.Errorf("Component data mismatch, got %+v", p)
	}

	// 同类型替换
	em.AddComponent(id, &testPlacement{X: 5})
	comp, _ = em.GetComponent(id, placementType)
	if comp.(*testPlacement).X != 5 {
		t.Error("AddComponent should replace the existing component")
	}

	em.RemoveComponent(id, placementType)
	if em.HasComponent(id, placementType) {
		t.Error("Component should be removed")
	}

	// 不存在的实体静默忽略
	em.AddComponent(42, &testGait{})
	if em.HasComponent(42, gaitType) {
		t.Error("AddComponent on unknown entity should be ignored")
	}
}

func TestDeferredDestroy(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()
	id3 := em.CreateEntity()
	for _, id := range []EntityID{id1, id2, id3} {
		em.AddComponent(id, &testPlacement{})
	}

	em.DestroyEntity(id1)
	em.DestroyEntity(id3)
	em.DestroyEntity(id3) // 重复标记只算一次

	// 清理前实体仍存在
	if !em.HasComponent(id1, placementType) {
		t.Error("Entity should still exist before cleanup")
	}

	if removed := em.RemoveMarkedEntities(); removed != 2 {
		t.Errorf("Expected 2 removed entities, got %d", removed)
	}
	if em.Exists(id1) || !em.Exists(id2) || em.Exists(id3) {
		t.Error("Only id2 should survive cleanup")
	}
	if removed := em.RemoveMarkedEntities(); removed != 0 {
		t.Errorf("Second cleanup should remove nothing, got %d", removed)
	}
}

func TestGetEntitiesWithSorted(t *testing.T) {
	em := NewEntityManager()

	var both []EntityID
	for i := 0; i < 20; i++ {
		id := em.CreateEntity()
		em.AddComponent(id, &testPlacement{})
		if i%3 == 0 {
			em.AddComponent(id, &testGait{})
			both = append(both, id)
		}
	}

	got := em.GetEntitiesWith(placementType, gaitType)
	if !reflect.DeepEqual(got, both) {
		t.Errorf("Expected %v, got %v", both, got)
	}
	if all := em.GetEntitiesWith(placementType); len(all) != 20 {
		t.Errorf("Expected 20 entities with placement, got %d", len(all))
	}
	if none := em.GetEntitiesWith(); len(none) != 20 {
		t.Errorf("Empty query should match every entity, got %d", len(none))
	}
}
