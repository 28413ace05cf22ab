//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package clinical implements the health-insurance (EPS) mart: attention
// events across urgent care, hospitalization and consultations, medication
// deliveries with co-prescription mining, and member withdrawal tracking.
package clinical

import "github.com/openmart/martctl/internal/db"

const (
	createDimIpsSQL = `
CREATE TABLE IF NOT EXISTS dim_ips (
    key_dim_ips  SERIAL PRIMARY KEY,
    id_ips       INTEGER NOT NULL,
    nombre_ips   VARCHAR(120),
    ciudad       VARCHAR(120),
    nivel        INTEGER
);
CREATE INDEX IF NOT EXISTS idx_dim_ips_id ON dim_ips (id_ips);
`

	createDimPersonaSQL = `
CREATE TABLE IF NOT EXISTS dim_persona (
    key_dim_persona  SERIAL PRIMARY KEY,
    id_persona       VARCHAR(20) NOT NULL,
    nombre           VARCHAR(120),
    tipo_afiliado    VARCHAR(20) NOT NULL,
    grupo_familiar   VARCHAR(20)
);
CREATE INDEX IF NOT EXISTS idx_dim_persona_id ON dim_persona (id_persona);
`

	createDimMedicoSQL = `
CREATE TABLE IF NOT EXISTS dim_medico (
    key_dim_medico  SERIAL PRIMARY KEY,
    id_medico       VARCHAR(20) NOT NULL,
    nombre_medico   VARCHAR(120),
    especialidad    VARCHAR(80)
);
CREATE INDEX IF NOT EXISTS idx_dim_medico_id ON dim_medico (id_medico);
`

	createDimServicioSQL = `
CREATE TABLE IF NOT EXISTS dim_servicio (
    key_dim_servicio  SERIAL PRIMARY KEY,
    id_tipo_servicio  INTEGER NOT NULL,
    nombre_servicio   VARCHAR(80)
);
`

	createDimDiagnosticoSQL = `
CREATE TABLE IF NOT EXISTS dim_diagnostico (
    key_dim_diagnostico  SERIAL PRIMARY KEY,
    codigo_cie           VARCHAR(10) NOT NULL,
    nombre_diagnostico   VARCHAR(200),
    categoria            VARCHAR(80)
);
CREATE INDEX IF NOT EXISTS idx_dim_diagnostico_cie ON dim_diagnostico (codigo_cie);
`

	createDimDemografiaSQL = `
CREATE TABLE IF NOT EXISTS dim_demografia (
    key_dim_demografia  SERIAL PRIMARY KEY,
    id_persona          VARCHAR(20) NOT NULL,
    estrato             INTEGER,
    nivel_educativo     VARCHAR(60),
    estado_civil        VARCHAR(30)
);
CREATE INDEX IF NOT EXISTS idx_dim_demografia_id ON dim_demografia (id_persona);
`

	createDimMedicamentoSQL = `
CREATE TABLE IF NOT EXISTS dim_medicamento (
    key_dim_medicamento  SERIAL PRIMARY KEY,
    codigo_medicamento   VARCHAR(20) NOT NULL,
    nombre_medicamento   VARCHAR(120),
    categoria            VARCHAR(80)
);
CREATE INDEX IF NOT EXISTS idx_dim_medicamento_codigo ON dim_medicamento (codigo_medicamento);
`

	createDimFechaSQL = `
CREATE TABLE IF NOT EXISTS dim_fecha (
    key_dim_fecha  SERIAL PRIMARY KEY,
    fecha          DATE NOT NULL,
    dia_semana     VARCHAR(20) NOT NULL,
    mes            VARCHAR(20) NOT NULL,
    anio           INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dim_fecha_fecha ON dim_fecha (fecha);
`

	createHechoAtencionesSQL = `
CREATE TABLE IF NOT EXISTS hecho_atenciones (
    id_atencion          INTEGER NOT NULL,
    key_dim_persona      INTEGER,
    key_dim_ips          INTEGER,
    key_dim_medico       INTEGER,
    key_dim_servicio     INTEGER,
    key_dim_diagnostico  INTEGER,
    key_dim_demografia   INTEGER,
    key_dim_fecha        INTEGER,
    costo                NUMERIC(14,2)
);
CREATE INDEX IF NOT EXISTS idx_hecho_atenciones_id ON hecho_atenciones (id_atencion);
`

	createHechoEntregasSQL = `
CREATE TABLE IF NOT EXISTS hecho_entregas (
    id_entrega             INTEGER NOT NULL,
    key_dim_persona        INTEGER,
    key_dim_ips            INTEGER,
    key_dim_fecha          INTEGER,
    cantidad_medicamentos  INTEGER NOT NULL,
    costo                  NUMERIC(14,2)
);
`

	createPatronCoprescripcionSQL = `
CREATE TABLE IF NOT EXISTS patron_coprescripcion (
    medicamentos  VARCHAR(500) NOT NULL,
    soporte       DOUBLE PRECISION NOT NULL
);
`

	createHechoRetirosSQL = `
CREATE TABLE IF NOT EXISTS hecho_retiros (
    key_dim_persona  INTEGER,
    key_dim_fecha    INTEGER,
    retirado         BOOLEAN NOT NULL,
    origen           VARCHAR(20) NOT NULL
);
`
)

func provisionStatements() []db.Statement {
	return []db.Statement{
		{Name: "dim_ips", SQL: createDimIpsSQL},
		{Name: "dim_persona", SQL: createDimPersonaSQL},
		{Name: "dim_medico", SQL: createDimMedicoSQL},
		{Name: "dim_servicio", SQL: createDimServicioSQL},
		{Name: "dim_diagnostico", SQL: createDimDiagnosticoSQL},
		{Name: "dim_demografia", SQL: createDimDemografiaSQL},
		{Name: "dim_medicamento", SQL: createDimMedicamentoSQL},
		{Name: "dim_fecha", SQL: createDimFechaSQL},
		{Name: "hecho_atenciones", SQL: createHechoAtencionesSQL},
		{Name: "hecho_entregas", SQL: createHechoEntregasSQL},
		{Name: "patron_coprescripcion", SQL: createPatronCoprescripcionSQL},
		{Name: "hecho_retiros", SQL: createHechoRetirosSQL},
	}
}

// Demo operational (EPS) schema, created by seed only.
const createSeedSchemaSQL = `
CREATE TABLE IF NOT EXISTS ips (
    ips_id  SERIAL PRIMARY KEY,
    nombre  VARCHAR(120) NOT NULL,
    ciudad  VARCHAR(120) NOT NULL,
    nivel   INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS cotizante (
    cedula            VARCHAR(20) PRIMARY KEY,
    nombre            VARCHAR(120) NOT NULL,
    fecha_nacimiento  DATE,
    sexo              VARCHAR(1)
);

CREATE TABLE IF NOT EXISTS beneficiario (
    cedula            VARCHAR(20) PRIMARY KEY,
    nombre            VARCHAR(120) NOT NULL,
    cotizante_cedula  VARCHAR(20) REFERENCES cotizante(cedula),
    parentesco        VARCHAR(30)
);

CREATE TABLE IF NOT EXISTS medico (
    cedula        VARCHAR(20) PRIMARY KEY,
    nombre        VARCHAR(120) NOT NULL,
    especialidad  VARCHAR(80)
);

CREATE TABLE IF NOT EXISTS tipo_servicio (
    tipo_servicio_id  INTEGER PRIMARY KEY,
    nombre            VARCHAR(80) NOT NULL
);

CREATE TABLE IF NOT EXISTS enfermedad (
    codigo_cie  VARCHAR(10) PRIMARY KEY,
    nombre      VARCHAR(200) NOT NULL,
    categoria   VARCHAR(80)
);

CREATE TABLE IF NOT EXISTS demografia (
    cedula           VARCHAR(20) PRIMARY KEY,
    estrato          INTEGER,
    nivel_educativo  VARCHAR(60),
    estado_civil     VARCHAR(30)
);

CREATE TABLE IF NOT EXISTS medicamento (
    codigo     VARCHAR(20) PRIMARY KEY,
    nombre     VARCHAR(120) NOT NULL,
    categoria  VARCHAR(80)
);

CREATE TABLE IF NOT EXISTS urgencia (
    urgencia_id    SERIAL PRIMARY KEY,
    cedula         VARCHAR(20),
    ips_id         INTEGER REFERENCES ips(ips_id),
    medico_cedula  VARCHAR(20) REFERENCES medico(cedula),
    fecha          DATE,
    codigo_cie     VARCHAR(10) REFERENCES enfermedad(codigo_cie),
    costo          NUMERIC(14,2)
);

CREATE TABLE IF NOT EXISTS hospitalizacion (
    hospitalizacion_id  SERIAL PRIMARY KEY,
    cedula              VARCHAR(20),
    ips_id              INTEGER REFERENCES ips(ips_id),
    medico_cedula       VARCHAR(20) REFERENCES medico(cedula),
    fecha               DATE,
    codigo_cie          VARCHAR(10) REFERENCES enfermedad(codigo_cie),
    costo               NUMERIC(14,2)
);

CREATE TABLE IF NOT EXISTS consulta (
    consulta_id    SERIAL PRIMARY KEY,
    cedula         VARCHAR(20),
    ips_id         INTEGER REFERENCES ips(ips_id),
    medico_cedula  VARCHAR(20) REFERENCES medico(cedula),
    fecha          DATE,
    codigo_cie     VARCHAR(10) REFERENCES enfermedad(codigo_cie),
    costo          NUMERIC(14,2)
);

CREATE TABLE IF NOT EXISTS entrega_medicamento (
    entrega_id     SERIAL PRIMARY KEY,
    cedula         VARCHAR(20),
    ips_id         INTEGER REFERENCES ips(ips_id),
    fecha          DATE,
    receta_codigo  VARCHAR(30),
    medicamentos   TEXT,
    costo          NUMERIC(14,2)
);

CREATE TABLE IF NOT EXISTS pago (
    pago_id     SERIAL PRIMARY KEY,
    cedula      VARCHAR(20),
    fecha_pago  DATE NOT NULL,
    valor       NUMERIC(14,2)
);

CREATE TABLE IF NOT EXISTS cancelacion (
    cancelacion_id  SERIAL PRIMARY KEY,
    cedula          VARCHAR(20),
    fecha           DATE NOT NULL,
    motivo          VARCHAR(200)
);
`

const dropSeedSchemaSQL = `
DROP TABLE IF EXISTS cancelacion CASCADE;
DROP TABLE IF EXISTS pago CASCADE;
DROP TABLE IF EXISTS entrega_medicamento CASCADE;
DROP TABLE IF EXISTS consulta CASCADE;
DROP TABLE IF EXISTS hospitalizacion CASCADE;
DROP TABLE IF EXISTS urgencia CASCADE;
DROP TABLE IF EXISTS medicamento CASCADE;
DROP TABLE IF EXISTS demografia CASCADE;
DROP TABLE IF EXISTS enfermedad CASCADE;
DROP TABLE IF EXISTS tipo_servicio CASCADE;
DROP TABLE IF EXISTS medico CASCADE;
DROP TABLE IF EXISTS beneficiario CASCADE;
DROP TABLE IF EXISTS cotizante CASCADE;
DROP TABLE IF EXISTS ips CASCADE;
`
