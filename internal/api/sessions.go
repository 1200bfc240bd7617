package api

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/promptlens/internal/chat"
	"github.com/samcharles93/promptlens/internal/session"
)

func (s *Server) handleCreateSession(c *echo.Context) error {
	req, err := decodeJSON[CreateSessionReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	model := s.modelOrDefault(req.Model)
	if _, err := s.registry().Get(model); err != nil {
		return writeBadRequest(c, err.Error())
	}
	sess, err := s.store.Create(c.Request().Context(), session.New(model))
	if err != nil {
		return writeSessionError(c, err)
	}
	s.log.Debug("session created", "id", sess.ID, "model", model)
	return c.JSON(http.StatusCreated, sess)
}

func (s *Server) handleGetSession(c *echo.Context) error {
	sess, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeSessionError(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(c *echo.Context) error {
	id := c.Param("id")
	if err := s.store.Delete(c.Request().Context(), id); err != nil {
		return writeSessionError(c, err)
	}
	return c.JSON(http.StatusOK, DeleteResp{ID: id, Object: "session", Deleted: true})
}

// update applies fn to the session named in the path and writes the result.
func (s *Server) update(c *echo.Context, fn func(*session.Session) error) error {
	sess, err := s.store.Update(c.Request().Context(), c.Param("id"), fn)
	if err != nil {
		return writeSessionError(c, err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) handleAddMessage(c *echo.Context) error {
	return s.update(c, func(sess *session.Session) error {
		sess.AddMessage()
		return nil
	})
}

func (s *Server) handleSetMessage(c *echo.Context) error {
	i, err := pathIndex(c, "index")
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	msg, err := decodeJSON[chat.Message](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	return s.update(c, func(sess *session.Session) error {
		return sess.SetMessage(i, msg)
	})
}

func (s *Server) handleDeleteMessage(c *echo.Context) error {
	i, err := pathIndex(c, "index")
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	return s.update(c, func(sess *session.Session) error {
		_, err := sess.DeleteMessage(i)
		return err
	})
}

func (s *Server) handleMoveMessage(c *echo.Context) error {
	i, err := pathIndex(c, "index")
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	req, err := decodeJSON[MoveReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.Direction != -1 && req.Direction != 1 {
		return writeBadRequest(c, "direction must be -1 or 1")
	}
	return s.update(c, func(sess *session.Session) error {
		_, err := sess.MoveMessage(i, req.Direction)
		return err
	})
}

func (s *Server) handleAddToolCall(c *echo.Context) error {
	i, err := pathIndex(c, "index")
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	return s.update(c, func(sess *session.Session) error {
		return sess.AddToolCall(i)
	})
}

func (s *Server) handleSetToolCall(c *echo.Context) error {
	i, err := pathIndex(c, "index")
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	j, err := pathIndex(c, "call")
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	req, err := decodeJSON[ToolCallReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	return s.update(c, func(sess *session.Session) error {
		return sess.SetToolCall(i, j, req.Name, req.Arguments)
	})
}

func (s *Server) handleRemoveToolCall(c *echo.Context) error {
	i, err := pathIndex(c, "index")
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	j, err := pathIndex(c, "call")
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	return s.update(c, func(sess *session.Session) error {
		return sess.RemoveToolCall(i, j)
	})
}

func (s *Server) handleSetOptions(c *echo.Context) error {
	req, err := decodeJSON[OptionsReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if req.Model != nil {
		if _, err := s.registry().Get(*req.Model); err != nil {
			return writeBadRequest(c, err.Error())
		}
	}
	return s.update(c, func(sess *session.Session) error {
		sess.SetOptions(req.apply(sess.Options))
		return nil
	})
}

func (s *Server) handleSetTools(c *echo.Context) error {
	req, err := decodeJSON[ToolsReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	// the editor text is saved even when it does not parse
	var parseErr error
	sess, err := s.store.Update(c.Request().Context(), c.Param("id"), func(sess *session.Session) error {
		parseErr = sess.SetTools(req.JSON)
		return nil
	})
	if err != nil {
		return writeSessionError(c, err)
	}
	if parseErr != nil {
		return writeError(c, http.StatusUnprocessableEntity, "invalid_request_error", parseErr.Error(), "json")
	}
	return c.JSON(http.StatusOK, sess)
}

func (s *Server) handleEditPrompt(c *echo.Context) error {
	req, err := decodeJSON[PromptReq](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	return s.update(c, func(sess *session.Session) error {
		sess.EditPrompt(req.Prompt)
		return nil
	})
}

func (s *Server) handleResetPrompt(c *echo.Context) error {
	return s.update(c, func(sess *session.Session) error {
		sess.ResetPrompt()
		return nil
	})
}

func (s *Server) handlePreview(c *echo.Context) error {
	sess, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeSessionError(c, err)
	}
	return c.JSON(http.StatusOK, s.builder.Preview(sess))
}

func (s *Server) handleSessionImage(c *echo.Context) error {
	sess, err := s.store.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeSessionError(c, err)
	}
	p := s.builder.Preview(sess)
	return s.writePNG(c, p.Segments, s.image)
}
