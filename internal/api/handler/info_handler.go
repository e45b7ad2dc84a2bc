package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// InfoHandler serves the static informational screens: the recycling
// guide and the sorting-station description.
type InfoHandler struct{}

func NewInfoHandler() *InfoHandler {
	return &InfoHandler{}
}

type material struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
	Proceso     string `json:"proceso"`
	NoIncluir   string `json:"no_incluir"`
}

type beneficio struct {
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
}

type reciclajeResponse struct {
	Titulo     string      `json:"titulo"`
	Materiales []material  `json:"materiales"`
	Beneficios []beneficio `json:"beneficios"`
}

// Reciclaje returns the recycling guide content.
//
// @Summary      Recycling guide
// @Tags         info
// @Produce      json
// @Success      200  {object}  reciclajeResponse
// @Router       /info/reciclaje [get]
func (h *InfoHandler) Reciclaje(c echo.Context) error {
	return c.JSON(http.StatusOK, reciclajeResponse{
		Titulo: "Guía de Reciclaje",
		Materiales: []material{
			{
				Nombre:      "Papel",
				Descripcion: "Periódicos, revistas, cuadernos, cartones de huevo",
				Proceso:     "Se tritura y mezcla con agua para crear pulpa nueva",
				NoIncluir:   "Papel higiénico, papeles engrasados o con comida",
			},
			{
				Nombre:      "Vidrio",
				Descripcion: "Botellas, frascos, envases de alimentos",
				Proceso:     "Se tritura y funde para crear nuevos envases",
				NoIncluir:   "Espejos, cristales de ventanas, porcelana",
			},
			{
				Nombre:      "Plástico",
				Descripcion: "Botellas PET, envases de limpieza, tapas",
				Proceso:     "Se clasifica por tipo, tritura y funde para nuevos productos",
				NoIncluir:   "Bolsas plásticas, juguetes, utensilios de cocina",
			},
			{
				Nombre:      "Aluminio",
				Descripcion: "Latas de bebidas, bandejas de aluminio",
				Proceso:     "Se funde y reutiliza infinitamente sin perder calidad",
				NoIncluir:   "Papel aluminio usado, aerosoles",
			},
			{
				Nombre:      "Cartón",
				Descripcion: "Cajas de embalaje, envases de productos",
				Proceso:     "Se recicla similar al papel pero con procesos más intensivos",
				NoIncluir:   "Cartones con restos de comida o grasas",
			},
		},
		Beneficios: []beneficio{
			{Titulo: "Ahorro de recursos", Descripcion: "Reduce la tala de árboles y minería"},
			{Titulo: "Ahorro energético", Descripcion: "Usa menos energía que producir nuevos materiales"},
			{Titulo: "Menos contaminación", Descripcion: "Reduce la contaminación del agua y aire"},
			{Titulo: "Creación de empleos", Descripcion: "Genera empleos en la industria del reciclaje"},
		},
	})
}

type caracteristica struct {
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
}

type pasoProceso struct {
	Paso        int    `json:"paso"`
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
}

type estacionResponse struct {
	Titulo          string           `json:"titulo"`
	Caracteristicas []caracteristica `json:"caracteristicas"`
	Proceso         []pasoProceso    `json:"proceso"`
}

// Estacion returns the sorting-station description.
//
// @Summary      Sorting station description
// @Tags         info
// @Produce      json
// @Success      200  {object}  estacionResponse
// @Router       /info/estacion [get]
func (h *InfoHandler) Estacion(c echo.Context) error {
	return c.JSON(http.StatusOK, estacionResponse{
		Titulo: "Estación Clasificadora",
		Caracteristicas: []caracteristica{
			{Titulo: "Inteligencia Artificial", Descripcion: "Modelos de machine learning entrenados para identificar materiales"},
			{Titulo: "Visión por Computadora", Descripcion: "Sistema de cámaras que captura imágenes en tiempo real"},
			{Titulo: "Raspberry Pi 5", Descripcion: "Procesamiento local con la última tecnología en microcomputadoras"},
			{Titulo: "Base de Datos en Tiempo Real", Descripcion: "Almacenamiento y análisis inmediato de cada clasificación"},
		},
		Proceso: []pasoProceso{
			{Paso: 1, Titulo: "Captura de Imagen", Descripcion: "El residuo es fotografiado por el sistema de cámaras"},
			{Paso: 2, Titulo: "Procesamiento IA", Descripcion: "El modelo predictivo analiza la imagen y clasifica el material"},
			{Paso: 3, Titulo: "Validación", Descripcion: "Se calcula el porcentaje de confianza de la clasificación"},
			{Paso: 4, Titulo: "Almacenamiento", Descripcion: "Los datos se guardan en la base de datos para análisis"},
			{Paso: 5, Titulo: "Visualización", Descripcion: "Resultados disponibles en tiempo real en el dashboard"},
		},
	})
}
