package behaviour

// ComponentManager owns the GameObjects of one scene and drives their
// components.
type ComponentManager struct {
	objects []*GameObject
	doomed  []*GameObject
}

func NewComponentManager() *ComponentManager {
	return &ComponentManager{}
}

// RegisterGameObject adds obj and starts its components.
func (cm *ComponentManager) RegisterGameObject(obj *GameObject) {
	cm.objects = append(cm.objects, obj)
	obj.start()
}

func (cm *ComponentManager) UnregisterGameObject(obj *GameObject) {
	for i, o := range cm.objects {
		if o == obj {
			cm.objects = append(cm.objects[:i], cm.objects[i+1:]...)
			obj.Destroy()
			return
		}
	}
}

// DestroyGameObject removes obj at the start of the next UpdateAll.
func (cm *ComponentManager) DestroyGameObject(obj *GameObject) {
	cm.doomed = append(cm.doomed, obj)
}

func (cm *ComponentManager) Find(name string) *GameObject {
	for _, obj := range cm.objects {
		if obj.Name == name {
			return obj
		}
	}
	return nil
}

func (cm *ComponentManager) Objects() []*GameObject { return cm.objects }

// UpdateAll processes pending destroys, then updates every object in
// registration order.
func (cm *ComponentManager) UpdateAll(t Time) {
	for _, obj := range cm.doomed {
		cm.UnregisterGameObject(obj)
	}
	cm.doomed = cm.doomed[:0]

	for _, obj := range cm.objects {
		obj.update(t)
	}
}

func (cm *ComponentManager) Clear() {
	for _, obj := range cm.objects {
		obj.Destroy()
	}
	cm.objects = nil
	cm.doomed = nil
}
