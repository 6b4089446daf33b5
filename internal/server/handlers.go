package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/syntree/pkg/ident"
	"github.com/matzehuels/syntree/pkg/render/nodelink"
	"github.com/matzehuels/syntree/pkg/tree"
	"github.com/matzehuels/syntree/pkg/workspace"
)

// nodeView is the JSON form of a node.
type nodeView struct {
	ID       ident.ID   `json:"id"`
	X        float64    `json:"x"`
	Y        float64    `json:"y"`
	Label    string     `json:"label"`
	Parent   ident.ID   `json:"parent,omitempty"`
	Children []ident.ID `json:"children,omitempty"`
	State    tree.State `json:"state"`
}

func viewOf(n *tree.Node) nodeView {
	p := n.Position()
	return nodeView{
		ID:       n.ID(),
		X:        p.X,
		Y:        p.Y,
		Label:    n.Label(),
		Parent:   n.ParentID(),
		Children: n.ChildIDs(),
		State:    n.State(),
	}
}

type treeView struct {
	ID       string     `json:"id"`
	Title    string     `json:"title,omitempty"`
	Root     ident.ID   `json:"root,omitempty"`
	Selected ident.ID   `json:"selected,omitempty"`
	Nodes    []nodeView `json:"nodes"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.version})
}

func (s *Server) getTree(w http.ResponseWriter, r *http.Request) {
	v := treeView{ID: s.ws.ID(), Title: s.ws.Title(), Nodes: []nodeView{}}
	_ = s.ws.View(func(t *tree.Tree) error {
		if root := t.Root(); root != nil {
			v.Root = root.ID()
		}
		if sel := t.Selected(); sel != nil {
			v.Selected = sel.ID()
		}
		for _, n := range t.Nodes() {
			v.Nodes = append(v.Nodes, viewOf(n))
		}
		return nil
	})
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) exportSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(s.ws.SVG())
}

func (s *Server) exportDOT(w http.ResponseWriter, r *http.Request) {
	opts := nodelink.Options{Detailed: r.URL.Query().Get("detailed") == "true"}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(s.ws.DOT(opts)))
}

func (s *Server) save(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.Save(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": s.ws.ID()})
}

type actionRequest struct {
	Value string `json:"value"`
}

func (s *Server) doAction(w http.ResponseWriter, r *http.Request) {
	action, err := workspace.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req actionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.ws.Do(action, req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondNode(w, http.StatusOK, s.ws.Selected())
}

type connectRequest struct {
	From ident.ID `json:"from"`
	To   ident.ID `json:"to"`
}

func (s *Server) connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.ws.Connect(req.From, req.To); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nodeID(r *http.Request) (ident.ID, error) {
	return ident.Parse(chi.URLParam(r, "id"))
}

func (s *Server) respondNode(w http.ResponseWriter, status int, id ident.ID) {
	var v *nodeView
	err := s.ws.View(func(t *tree.Tree) error {
		n, err := t.Node(id)
		if err != nil {
			return err
		}
		nv := viewOf(n)
		v = &nv
		return nil
	})
	if err != nil {
		if !id.Valid() {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.writeError(w, err)
		return
	}
	writeJSON(w, status, v)
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respondNode(w, http.StatusOK, id)
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.ws.Delete(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Propagate bool    `json:"propagate"`
}

func (s *Server) moveNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if _, err := s.ws.Move(id, req.X, req.Y, req.Propagate); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondNode(w, http.StatusOK, id)
}

func (s *Server) selectNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.ws.Select(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondNode(w, http.StatusOK, id)
}

type editRequest struct {
	Action string `json:"action"`
	// Value is nil when the request leaves the editor content alone.
	Value *string `json:"value"`
}

func (s *Server) editNode(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req editRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	action, err := tree.ParseEditAction(req.Action)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.ws.Edit(id, action, req.Value); err != nil {
		s.writeError(w, err)
		return
	}
	s.respondNode(w, http.StatusOK, id)
}

type childRequest struct {
	Label string `json:"label"`
	Index *int   `json:"index"`
}

func (s *Server) addChild(w http.ResponseWriter, r *http.Request) {
	id, err := nodeID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req childRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	index := -1
	if req.Index != nil {
		index = *req.Index
	}
	child, err := s.ws.AddChild(id, req.Label, index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.respondNode(w, http.StatusCreated, child)
}
