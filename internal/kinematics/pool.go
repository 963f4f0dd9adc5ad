package kinematics

import "sync"

// WorkspacePool recycles private workspaces for concurrent evaluation.
type WorkspacePool struct {
	pool sync.Pool
}

func NewWorkspacePool(ev Evaluator) *WorkspacePool {
	return &WorkspacePool{
		pool: sync.Pool{
			New: func() interface{} {
				return ev.NewWorkspace()
			},
		},
	}
}

func (p *WorkspacePool) Get() *Workspace {
	return p.pool.Get().(*Workspace)
}

func (p *WorkspacePool) Put(ws *Workspace) {
	if ws != nil {
		p.pool.Put(ws)
	}
}
