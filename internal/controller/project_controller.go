package controller

import (
	"lingodocs-be/internal/dto"
	"lingodocs-be/internal/pkg/serverutils"
	"lingodocs-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IProjectController interface {
	RegisterRoutes(r fiber.Router)
}

type projectController struct {
	projectService service.IProjectService
	sessionAuth    *serverutils.SessionAuth
}

func NewProjectController(projectService service.IProjectService, sessionAuth *serverutils.SessionAuth) IProjectController {
	return &projectController{projectService: projectService, sessionAuth: sessionAuth}
}

func (c *projectController) RegisterRoutes(r fiber.Router) {
	projects := r.Group("/projects")
	projects.Use(c.sessionAuth.Handle)
	projects.Get("/", c.List)
	projects.Get("/:id", c.Show)
	projects.Get("/:id/tasks", c.ListTasks)
	projects.Post("/", serverutils.RequireAdmin, c.Create)
	projects.Post("/:id/tasks", serverutils.RequireAdmin, c.CreateTask)
	projects.Put("/:id", serverutils.RequireAdmin, c.Update)
	projects.Delete("/:id", serverutils.RequireAdmin, c.Delete)

	tasks := r.Group("/tasks")
	tasks.Use(c.sessionAuth.Handle, serverutils.RequireAdmin)
	tasks.Put("/:id", c.UpdateTask)
	tasks.Delete("/:id", c.DeleteTask)
}

func (c *projectController) List(ctx *fiber.Ctx) error {
	projects, err := c.projectService.List(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Projects", projects))
}

func (c *projectController) Show(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	project, err := c.projectService.Get(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Project", project))
}

func (c *projectController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	project, err := c.projectService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Project created", project))
}

func (c *projectController) Update(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateProjectRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	project, err := c.projectService.Update(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Project updated", project))
}

func (c *projectController) Delete(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.projectService.Delete(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Project deleted", nil))
}

func (c *projectController) ListTasks(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	tasks, err := c.projectService.ListTasks(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Tasks", tasks))
}

func (c *projectController) CreateTask(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.CreateTaskRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	task, err := c.projectService.CreateTask(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Task created", task))
}

func (c *projectController) UpdateTask(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTaskRequest
	if err := dto.ParseAndValidate(ctx, &req); err != nil {
		return err
	}
	task, err := c.projectService.UpdateTask(ctx.Context(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Task updated", task))
}

func (c *projectController) DeleteTask(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}
	if err := c.projectService.DeleteTask(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Task deleted", nil))
}
