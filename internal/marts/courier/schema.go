//-------------------------------------------------------------------------
//
// martctl Warehouse Builder
//
// Copyright (c) 2025 - 2026, OpenMart Data, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package courier implements the courier service delivery mart: a star
// schema over the messaging company's operational database, centered on
// the hecho_servicios fact of per-service wait times.
package courier

import "github.com/openmart/martctl/internal/db"

// Star-schema DDL for the courier target. Surrogate keys are SERIAL so the
// store assigns them on load; builders emit natural keys and attributes only.
const (
	createDimTiempoSQL = `
CREATE TABLE IF NOT EXISTS dim_tiempo (
    key_dim_tiempo  SERIAL PRIMARY KEY,
    fecha           DATE NOT NULL,
    hora_dia        INTEGER NOT NULL,
    dia_semana      VARCHAR(20) NOT NULL,
    mes             VARCHAR(20) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dim_tiempo_fecha_hora ON dim_tiempo (fecha, hora_dia);
`

	createDimSedeSQL = `
CREATE TABLE IF NOT EXISTS dim_sede (
    key_dim_sede  SERIAL PRIMARY KEY,
    id_sede       INTEGER NOT NULL,
    nombre_sede   VARCHAR(120),
    ciudad        VARCHAR(120)
);
CREATE INDEX IF NOT EXISTS idx_dim_sede_id ON dim_sede (id_sede);
`

	createDimClienteSQL = `
CREATE TABLE IF NOT EXISTS dim_cliente (
    key_dim_cliente  SERIAL PRIMARY KEY,
    id_cliente       INTEGER NOT NULL,
    nombre_cliente   VARCHAR(120)
);
CREATE INDEX IF NOT EXISTS idx_dim_cliente_id ON dim_cliente (id_cliente);
`

	createDimMensajeroSQL = `
CREATE TABLE IF NOT EXISTS dim_mensajero (
    key_dim_mensajero  SERIAL PRIMARY KEY,
    id_mensajero       INTEGER NOT NULL,
    nombre_mensajero   VARCHAR(180)
);
CREATE INDEX IF NOT EXISTS idx_dim_mensajero_id ON dim_mensajero (id_mensajero);
`

	createHechoServiciosSQL = `
CREATE TABLE IF NOT EXISTS hecho_servicios (
    id_servicio                INTEGER NOT NULL,
    key_dim_cliente            INTEGER,
    key_dim_mensajero          INTEGER,
    key_dim_tiempo             INTEGER,
    key_dim_sede               INTEGER,
    tiempo_total_espera        VARCHAR(40),
    tiempo_espera_inicial      VARCHAR(40),
    tiempo_espera_asignado     VARCHAR(40),
    tiempo_espera_recogido     VARCHAR(40),
    tiempo_espera_en_destino   VARCHAR(40),
    cantidad_novedades_tipo_1  INTEGER NOT NULL DEFAULT 0,
    cantidad_novedades_tipo_2  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_hecho_servicios_id ON hecho_servicios (id_servicio);
`
)

func provisionStatements() []db.Statement {
	return []db.Statement{
		{Name: "dim_tiempo", SQL: createDimTiempoSQL},
		{Name: "dim_sede", SQL: createDimSedeSQL},
		{Name: "dim_cliente", SQL: createDimClienteSQL},
		{Name: "dim_mensajero", SQL: createDimMensajeroSQL},
		{Name: "hecho_servicios", SQL: createHechoServiciosSQL},
	}
}

// Demo operational (OLTP) schema, created by seed only. Mirrors the subset
// of the courier company's source tables the refresh reads.
const createSeedSchemaSQL = `
CREATE TABLE IF NOT EXISTS ciudad (
    ciudad_id  SERIAL PRIMARY KEY,
    nombre     VARCHAR(120) NOT NULL
);

CREATE TABLE IF NOT EXISTS sede (
    sede_id    SERIAL PRIMARY KEY,
    nombre     VARCHAR(120) NOT NULL,
    ciudad_id  INTEGER REFERENCES ciudad(ciudad_id)
);

CREATE TABLE IF NOT EXISTS cliente (
    cliente_id  SERIAL PRIMARY KEY,
    nombre      VARCHAR(120) NOT NULL
);

CREATE TABLE IF NOT EXISTS auth_user (
    id          SERIAL PRIMARY KEY,
    first_name  VARCHAR(60) NOT NULL,
    last_name   VARCHAR(60) NOT NULL,
    username    VARCHAR(60) NOT NULL
);

CREATE TABLE IF NOT EXISTS clientes_usuarioaquitoy (
    id          SERIAL PRIMARY KEY,
    cliente_id  INTEGER REFERENCES cliente(cliente_id),
    sede_id     INTEGER REFERENCES sede(sede_id)
);

CREATE TABLE IF NOT EXISTS clientes_mensajeroaquitoy (
    id       SERIAL PRIMARY KEY,
    user_id  INTEGER REFERENCES auth_user(id)
);

CREATE TABLE IF NOT EXISTS mensajeria_servicio (
    id               SERIAL PRIMARY KEY,
    cliente_id       INTEGER REFERENCES cliente(cliente_id),
    usuario_id       INTEGER REFERENCES clientes_usuarioaquitoy(id),
    mensajero_id     INTEGER REFERENCES clientes_mensajeroaquitoy(id),
    mensajero2_id    INTEGER REFERENCES clientes_mensajeroaquitoy(id),
    mensajero3_id    INTEGER REFERENCES clientes_mensajeroaquitoy(id),
    fecha_solicitud  DATE,
    hora_solicitud   TIME
);

CREATE TABLE IF NOT EXISTS mensajeria_estadosservicio (
    id           SERIAL PRIMARY KEY,
    servicio_id  INTEGER REFERENCES mensajeria_servicio(id),
    estado_id    INTEGER NOT NULL,
    fecha        DATE,
    hora         TIME
);

CREATE TABLE IF NOT EXISTS mensajeria_novedadesservicio (
    id               SERIAL PRIMARY KEY,
    servicio_id      INTEGER REFERENCES mensajeria_servicio(id),
    tipo_novedad_id  INTEGER NOT NULL
);
`

const dropSeedSchemaSQL = `
DROP TABLE IF EXISTS mensajeria_novedadesservicio CASCADE;
DROP TABLE IF EXISTS mensajeria_estadosservicio CASCADE;
DROP TABLE IF EXISTS mensajeria_servicio CASCADE;
DROP TABLE IF EXISTS clientes_mensajeroaquitoy CASCADE;
DROP TABLE IF EXISTS clientes_usuarioaquitoy CASCADE;
DROP TABLE IF EXISTS auth_user CASCADE;
DROP TABLE IF EXISTS cliente CASCADE;
DROP TABLE IF EXISTS sede CASCADE;
DROP TABLE IF EXISTS ciudad CASCADE;
`
